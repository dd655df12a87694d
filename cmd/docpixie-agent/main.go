package main

import (
	"log"
	"net/http"
	"os"

	"github.com/docpixie/agent/internal/agent"
	"github.com/docpixie/agent/internal/config"
	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/httpapi"
	"github.com/docpixie/agent/internal/provider"
	"github.com/docpixie/agent/internal/storage/memory"
)

func main() {
	cfg := config.Load()

	var llm domain.Provider
	if os.Getenv("DOCPIXIE_USE_MOCK_PROVIDER") == "1" {
		log.Println("[provider] using mock provider")
		llm = provider.NewMock("mock response")
	} else {
		var err error
		log.Printf("[provider] using %s provider", cfg.Provider)
		llm, err = provider.New(cfg)
		if err != nil {
			log.Fatalf("error initializing provider: %v", err)
		}
	}

	docs := memory.NewDocumentStore()

	selector := agent.NewVisionPageSelector(llm, cfg.MaxPagesPerTask, cfg.IncludePageSummariesInSelection, cfg.TemperatureSelection)
	orchestrator := agent.NewOrchestrator(
		docs,
		llm,
		agent.NewContextProcessor(llm, cfg.MaxConversationTurns, cfg.TurnsToSummarize, cfg.TurnsToKeepFull, cfg.TemperatureSummary),
		agent.NewQueryReformulator(llm, cfg.TemperatureReformulation),
		agent.NewQueryClassifier(llm, cfg.TemperatureClassification),
		agent.NewTaskPlanner(llm, cfg.MaxTasksPerPlan, cfg.TemperatureAnalysis),
		agent.NewTaskExecutor(llm, selector, cfg.TemperatureAnalysis),
		agent.NewResponseSynthesizer(llm, cfg.TemperatureSynthesis),
		cfg.MaxAgentIterations,
	)

	handler := httpapi.NewServer(orchestrator, docs)

	port := ":" + getEnv("PORT", "8080")
	log.Println("docpixie-agent listening on port:", port)
	if err := http.ListenAndServe(port, handler); err != nil {
		log.Fatal(err)
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
