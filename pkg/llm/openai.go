package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/packages/ssestream"
)

var _ Generator = (*OpenAIGenerator)(nil)

const (
	oaiFinishReasonStop          = "stop"
	oaiFinishReasonLength        = "length"
	oaiFinishReasonContentFilter = "content_filter"
)

// OpenAIGenerator implements Generator using the OpenAI chat completions
// API. It also serves OpenAI-compatible endpoints via the client BaseURL.
type OpenAIGenerator struct {
	Client *openai.Client `json:"-" yaml:"-"`

	Model string `json:"model" yaml:"model"`

	// Params are the default sampling parameters; Request.Params wins.
	Params *ModelParams `json:"params,omitzero" yaml:"params,omitzero"`
}

func (g *OpenAIGenerator) GenerateStream(ctx context.Context, _ string, req *Request) (Stream, error) {
	params, err := g.completionParams(req)
	if err != nil {
		return nil, err
	}
	sb := NewStreamBuilder(32)
	go func() {
		if err := oaiPull(sb, g.Client.Chat.Completions.NewStreaming(ctx, params)); err != nil {
			sb.Abort(err)
		}
	}()
	return sb.Stream(), nil
}

func (g *OpenAIGenerator) completionParams(req *Request) (openai.ChatCompletionNewParams, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Turns)+1)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, turn := range req.Turns {
		switch turn.Role {
		case RoleUser:
			msgs = append(msgs, openai.UserMessage(turn.Content))
		case RoleAssistant:
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(turn.Content))
		default:
			return openai.ChatCompletionNewParams{}, fmt.Errorf("llm: unexpected role: %q", turn.Role)
		}
	}
	params := openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    g.Model,
	}
	mp := g.Params
	if req.Params != nil {
		mp = req.Params
	}
	if mp != nil {
		if mp.MaxTokens > 0 {
			params.MaxCompletionTokens = param.NewOpt(int64(mp.MaxTokens))
		}
		if mp.Temperature > 0 {
			params.Temperature = param.NewOpt(float64(mp.Temperature))
		}
		if mp.TopP > 0 {
			params.TopP = param.NewOpt(float64(mp.TopP))
		}
	}
	return params, nil
}

func oaiPull(sb *StreamBuilder, stream *ssestream.Stream[openai.ChatCompletionChunk]) error {
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		sel := chunk.Choices[0]
		if s := sel.Delta.Content; s != "" {
			if err := sb.Add(s); err != nil {
				// Consumer stopped listening; drop the rest.
				return nil
			}
		}
		if s := sel.Delta.Refusal; s != "" {
			return &ProtocolError{Msg: "refused: " + s}
		}
		switch sel.FinishReason {
		case oaiFinishReasonStop:
			return sb.Done()
		case oaiFinishReasonLength:
			return &ProtocolError{Msg: "truncated at max tokens"}
		case oaiFinishReasonContentFilter:
			return &ProtocolError{Msg: "blocked by content filter"}
		}
	}
	if err := stream.Err(); err != nil {
		return &TransportError{Err: err}
	}
	return sb.Done()
}
