package service

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"hr-assistant-be/internal/dto"
	"hr-assistant-be/internal/pkg/logger"
	"hr-assistant-be/internal/pkg/serverutils"
	"hr-assistant-be/pkg/ai/router"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IAssistantService answers one question per call. Session continuity is
// driven entirely by the session_id the client echoes back.
type IAssistantService interface {
	Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error)
}

type assistantService struct {
	router    *router.Router
	sysLogger logger.ILogger
}

func NewAssistantService(r *router.Router, sysLogger logger.ILogger) IAssistantService {
	return &assistantService{
		router:    r,
		sysLogger: sysLogger,
	}
}

func (s *assistantService) Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error) {
	sessionID := request.SessionId
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result, err := s.router.Ask(ctx, sessionID, request.Question)
	if err != nil {
		s.sysLogger.Error("Assistant", "Ask failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, serverutils.NewApiError(fiber.StatusInternalServerError, "Failed to answer the question")
	}

	s.sysLogger.Info("Assistant", "Question answered", map[string]interface{}{
		"session_id": sessionID,
		"intent":     string(result.Intent),
		"source":     result.Source,
		"row_count":  len(result.Rows),
	})

	return &dto.AskResponse{
		SessionId: result.SessionID,
		Answer:    result.Answer,
		Intent:    string(result.Intent),
		Source:    result.Source,
		Sql:       result.SQL,
		Rows:      result.Rows,
	}, nil
}

// InitAssistantLogger writes the noisy per-request pipeline log to its own
// file so the main application log stays readable.
func InitAssistantLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "assistant_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[ASSISTANT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
