package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"

	"google.golang.org/api/option"
)

// TextGenerator is the remote text-generation collaborator as the rest of
// the service layer sees it: instruction in, free text out.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// generativeModel is the slice of *genai.GenerativeModel the service uses;
// tests substitute a stub.
type generativeModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type LLMService struct {
	client   *genai.Client
	model    generativeModel
	timeout  time.Duration
	rateChan chan struct{} // Token bucket
}

func NewLLMService(apiKey string, concurrentReqs int, timeout time.Duration) (*LLMService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.4)
	model.SetTopP(0.95)

	// Token bucket capping in-flight collaborator calls
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &LLMService{
		client:   client,
		model:    model,
		timeout:  timeout,
		rateChan: rateChan,
	}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// acquireRate blocks until a rate slot is available
func (s *LLMService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *LLMService) releaseRate() {
	s.rateChan <- struct{}{}
}

// Generate sends one instruction to the collaborator with a bounded
// timeout and at most a single retry.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	text, err := s.generateOnce(ctx, prompt)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	log.Printf("Gemini call failed, retrying once: %v", err)
	time.Sleep(500 * time.Millisecond)

	return s.generateOnce(ctx, prompt)
}

func (s *LLMService) generateOnce(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.model.GenerateContent(callCtx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			log.Printf("Gemini candidate %d stopped with reason %s", i, cand.FinishReason)
		}
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", fmt.Errorf("Gemini returned empty text")
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
