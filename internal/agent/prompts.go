package agent

import (
	"fmt"
	"strings"

	"github.com/docpixie/agent/internal/domain"
)

const summarizerSystemPrompt = "You are a conversation summarizer. Condense the exchange below into a short paragraph that preserves every fact, decision, and open thread a later turn might need, without inventing anything not present in the text."

const reformulatorSystemPrompt = "You rewrite a user's latest question into a fully self-contained query using the conversation history, resolving pronouns and implicit references. If the question is already self-contained, return it unchanged."

const classifierSystemPrompt = "You decide whether answering a question requires looking at the user's documents, or whether it can be answered directly from general knowledge and the conversation so far."

const plannerSystemPrompt = "You are a research planner. Break the user's question into a short ordered list of focused sub-tasks, each assigned to exactly one document, that together gather what is needed to answer it."

const planUpdateSystemPrompt = "You review progress on a research plan and decide whether to keep it as is, modify a pending task, remove a pending task, add a new task, or declare the plan sufficient to answer the question."

const pageSelectorSystemPrompt = "You are shown page images from a document and a task description. Choose the page numbers most relevant to the task."

const executorSystemPrompt = "You analyze the given document page images to answer the task description as precisely as possible, citing what the pages actually show."

const synthesizerSystemPrompt = "You write the final answer to the user's question using only the task analyses provided. Do not invent facts not supported by them."

func summarizerUserPrompt(chunk string) string {
	return fmt.Sprintf("Summarize this part of the conversation:\n\n%s", chunk)
}

func reformulatorUserPrompt(history, query string) string {
	return fmt.Sprintf("Conversation so far:\n%s\n\nLatest question: %q\n\nRespond with JSON: {\"reformulated\": string, \"changed\": bool}", history, query)
}

func classifierUserPrompt(query, history string) string {
	return fmt.Sprintf("Conversation so far:\n%s\n\nQuestion: %q\n\nRespond with JSON: {\"needs_documents\": bool, \"reasoning\": string, \"direct_answer\": string (only if needs_documents is false)}", history, query)
}

func plannerUserPrompt(query string, catalog []domain.DocumentSummary) string {
	var b strings.Builder
	b.WriteString("Available documents:\n")
	for _, d := range catalog {
		fmt.Fprintf(&b, "- id=%s name=%q summary=%q\n", d.ID, d.Name, d.Summary)
	}
	fmt.Fprintf(&b, "\nQuestion: %q\n\n", query)
	b.WriteString(`Respond with JSON: {"tasks": [{"name": string, "description": string, "document_id": string}]}`)
	return b.String()
}

func planUpdateUserPrompt(query string, plan *domain.TaskPlan, latest *domain.TaskResult, catalog []domain.DocumentSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original question: %q\n\n", query)
	b.WriteString("Plan status:\n")
	for _, t := range plan.Tasks {
		fmt.Fprintf(&b, "- [%s] %s: %s (document=%s)\n", t.Status, t.Name, t.Description, t.AssignedDocumentID)
	}
	if latest != nil {
		fmt.Fprintf(&b, "\nMost recent task %q produced:\n%s\n", latest.Task.Name, latest.Analysis)
	}
	b.WriteString("\nAvailable documents:\n")
	for _, d := range catalog {
		fmt.Fprintf(&b, "- id=%s name=%q summary=%q\n", d.ID, d.Name, d.Summary)
	}
	b.WriteString("\nRespond with JSON using one of these shapes:\n")
	b.WriteString(`{"action": "keep"}` + "\n")
	b.WriteString(`{"action": "sufficient"}` + "\n")
	b.WriteString(`{"action": "remove", "task_id": string}` + "\n")
	b.WriteString(`{"action": "add", "task": {"name": string, "description": string, "document_id": string}}` + "\n")
	b.WriteString(`{"action": "modify", "task_id": string, "task": {"name": string, "description": string, "document_id": string}}` + "\n")
	return b.String()
}

func pageSelectorUserPrompt(task *domain.AgentTask, maxPages int) string {
	return fmt.Sprintf("Task: %s\n%s\n\nSelect at most %d page numbers most relevant to this task. Respond with JSON: {\"selected_pages\": [int], \"reasoning\": string}", task.Name, task.Description, maxPages)
}

func executorUserPrompt(task *domain.AgentTask) string {
	return fmt.Sprintf("Task: %s\n%s\n\nAnalyze the attached page images and answer the task as precisely as possible.", task.Name, task.Description)
}

func synthesizerUserPrompt(query string, results []*domain.TaskResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original question: %q\n\n", query)
	if len(results) == 0 {
		b.WriteString("No task produced a usable analysis.\n")
	}
	for _, r := range results {
		if r.Task.Status == domain.TaskFailed {
			fmt.Fprintf(&b, "Task %q failed (%s): %s\n\n", r.Task.Name, r.Task.FailureKind, r.Analysis)
			continue
		}
		fmt.Fprintf(&b, "Task %q analysis:\n%s\n\n", r.Task.Name, r.Analysis)
	}
	b.WriteString("Write the final answer to the original question using the analyses above. If some tasks failed, note what could not be determined instead of inventing an answer for it.")
	return b.String()
}
