package llm

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/genai"
)

var _ Generator = (*GeminiGenerator)(nil)

// GeminiGenerator implements Generator using the Google Gemini API.
type GeminiGenerator struct {
	Client *genai.Client `json:"-" yaml:"-"`

	// Model should not start with "models/".
	Model string `json:"model" yaml:"model"`

	Params *ModelParams `json:"params,omitzero" yaml:"params,omitzero"`
}

func (g *GeminiGenerator) GenerateStream(ctx context.Context, _ string, req *Request) (Stream, error) {
	cfg, contents, err := g.convRequest(req)
	if err != nil {
		return nil, err
	}
	sb := NewStreamBuilder(32)
	go func() {
		if err := geminiPull(sb, g.Client.Models.GenerateContentStream(ctx, g.Model, contents, cfg)); err != nil {
			sb.Abort(err)
		}
	}()
	return sb.Stream(), nil
}

func (g *GeminiGenerator) convRequest(req *Request) (*genai.GenerateContentConfig, []*genai.Content, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.System)},
		}
	}
	mp := g.Params
	if req.Params != nil {
		mp = req.Params
	}
	if mp != nil {
		cfg.MaxOutputTokens = int32(mp.MaxTokens)
		if mp.Temperature > 0 {
			cfg.Temperature = &mp.Temperature
		}
		if mp.TopP > 0 {
			cfg.TopP = &mp.TopP
		}
		if mp.TopK > 0 {
			cfg.TopK = &mp.TopK
		}
	}

	contents := make([]*genai.Content, 0, len(req.Turns))
	for _, turn := range req.Turns {
		var role genai.Role
		switch turn.Role {
		case RoleUser:
			role = genai.RoleUser
		case RoleAssistant:
			role = genai.RoleModel
		default:
			return nil, nil, fmt.Errorf("llm: unexpected role: %q", turn.Role)
		}
		contents = append(contents, &genai.Content{
			Role:  string(role),
			Parts: []*genai.Part{genai.NewPartFromText(turn.Content)},
		})
	}
	if len(contents) == 0 {
		return nil, nil, fmt.Errorf("llm: no contents")
	}
	return cfg, contents, nil
}

func geminiPull(sb *StreamBuilder, itr iter.Seq2[*genai.GenerateContentResponse, error]) error {
	for chunk, err := range itr {
		if err != nil {
			if e, ok := err.(*apierror.APIError); ok {
				err = e.Unwrap()
			}
			return &TransportError{Err: err}
		}
		if len(chunk.Candidates) == 0 {
			continue
		}
		sel := chunk.Candidates[0]
		if sel.Content != nil {
			var text strings.Builder
			for _, p := range sel.Content.Parts {
				if p.Text != "" {
					text.WriteString(p.Text)
				}
			}
			if text.Len() > 0 {
				if err := sb.Add(text.String()); err != nil {
					return nil
				}
			}
		}
		switch sel.FinishReason {
		case genai.FinishReasonUnspecified, "":
			// keep pulling
		case genai.FinishReasonStop:
			return sb.Done()
		case genai.FinishReasonMaxTokens:
			return &ProtocolError{Msg: "truncated at max tokens"}
		default:
			return &ProtocolError{Msg: fmt.Sprintf("unexpected finish reason: %s", sel.FinishReason)}
		}
	}
	return sb.Done()
}
