package provider

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/docpixie/agent/internal/domain"
)

// encodeImageBase64 reads the bytes behind an ImageHandle and returns them
// base64-encoded, for vendors that want the image inlined (OpenAI-style
// data URLs, Anthropic base64 source blocks). A handle backed by a remote
// URL is never read locally — callers that can pass a URL straight through
// should check handle.URL first.
func encodeImageBase64(handle domain.ImageHandle) (string, error) {
	if handle.Path == "" {
		return "", fmt.Errorf("provider: image handle has no local path to encode")
	}
	data, err := os.ReadFile(handle.Path)
	if err != nil {
		return "", fmt.Errorf("provider: failed to read image %q: %w", handle.Path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// dataURL builds a data:image/jpeg;base64,... URL from an ImageHandle,
// used by the OpenAI-style wire format (spec.md §6.2).
func dataURL(handle domain.ImageHandle) (string, error) {
	encoded, err := encodeImageBase64(handle)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + encoded, nil
}
