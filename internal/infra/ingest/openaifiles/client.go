package openaifiles

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/inspection-ai/internal/domain/media"
)

// Client implements the media.Ingestor port on the provider's Files API.
// Upload is synchronous; whether the file then needs asynchronous remote
// processing is the tracker's call, this adapter just reports status.
type Client struct {
	api     *openai.Client
	purpose string
}

func NewClient(apiKey string) *Client {
	return &Client{api: openai.NewClient(apiKey), purpose: "assistants"}
}

// NewFromClient shares one underlying API client with the analysis side.
func NewFromClient(api *openai.Client) *Client {
	return &Client{api: api, purpose: "assistants"}
}

func (c *Client) Upload(ctx context.Context, localPath string) (media.Handle, error) {
	f, err := c.api.CreateFile(ctx, openai.FileRequest{
		FileName: filepath.Base(localPath),
		FilePath: localPath,
		Purpose:  c.purpose,
	})
	if err != nil {
		return "", fmt.Errorf("file upload: %w", err)
	}
	return media.Handle(f.ID), nil
}

func (c *Client) Status(ctx context.Context, h media.Handle) (media.RemoteStatus, error) {
	f, err := c.api.GetFile(ctx, string(h))
	if err != nil {
		return media.RemoteStatus{}, fmt.Errorf("file status: %w", err)
	}
	switch f.Status {
	case "processed", "ready", "":
		return media.RemoteStatus{State: media.ProcessingStateReady}, nil
	case "error", "failed":
		reason := f.StatusDetails
		if reason == "" {
			reason = f.Status
		}
		return media.RemoteStatus{State: media.ProcessingStateFailed, Reason: reason}, nil
	default: // uploaded, pending, processing
		return media.RemoteStatus{State: media.ProcessingStatePending}, nil
	}
}
