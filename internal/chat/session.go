package chat

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
	"github.com/opiniondesk/opiniondesk-backend/internal/repository"
	jwtpkg "github.com/opiniondesk/opiniondesk-backend/pkg/jwt"
	"github.com/opiniondesk/opiniondesk-backend/pkg/logger"
)

const (
	// assistant replies are streamed in word batches of this size
	chunkWords = 8

	replyTimeout = 90 * time.Second

	// historyReplayLimit caps how many stored messages a freshly
	// authenticated connection receives
	historyReplayLimit = 50
)

// TokenVerifier checks an access token and returns its claims
type TokenVerifier interface {
	VerifyToken(token string) (*jwtpkg.Claims, error)
}

// Session handles the chat protocol for one connection. Frames arrive
// through HandleFrame; outbound frames go through emit. A session is
// bound to the connection's read loop, so frame handling itself is
// single-threaded; only the assistant reply runs on its own goroutine.
type Session struct {
	verifier  TokenVerifier
	repo      repository.ChatRepository
	responder Responder
	emit      func(data []byte)
	onAuth    func(userID string)

	pending *PendingList
	userID  string
}

// NewSession creates a session for a single connection. onAuth is
// called once the connection authenticates, with the verified user id.
func NewSession(verifier TokenVerifier, repo repository.ChatRepository, responder Responder, emit func(data []byte), onAuth func(userID string)) *Session {
	return &Session{
		verifier:  verifier,
		repo:      repo,
		responder: responder,
		emit:      emit,
		onAuth:    onAuth,
		pending:   NewPendingList(),
	}
}

// Authenticated reports whether the connection has presented a valid token
func (s *Session) Authenticated() bool {
	return s.userID != ""
}

// Pending exposes the optimistic-message ledger
func (s *Session) Pending() *PendingList {
	return s.pending
}

// HandleFrame dispatches one inbound frame
func (s *Session) HandleFrame(data []byte) {
	var frame InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		logger.Warn("chat: dropping malformed frame: %v", err)
		return
	}

	switch frame.Event {
	case EventAuthenticate:
		s.handleAuthenticate(frame)
	case EventChatMessage:
		s.handleChatMessage(frame)
	default:
		logger.Warn("chat: unknown event %q", frame.Event)
	}
}

func (s *Session) handleAuthenticate(frame InboundFrame) {
	claims, err := s.verifier.VerifyToken(frame.Token)
	if err != nil {
		s.send(AuthResponse{Event: EventAuthResponse, Success: false, Error: "authentication failed"})
		return
	}

	s.userID = claims.UserID
	// respond and replay before onAuth registers the connection with
	// the hub, so both stay local to this socket
	s.send(AuthResponse{Event: EventAuthResponse, Success: true})
	s.replayHistory()
	if s.onAuth != nil {
		s.onAuth(claims.UserID)
	}
}

// replayHistory sends the connection's recent chat history so a
// reconnecting client starts from where it left off.
func (s *Session) replayHistory() {
	if s.repo == nil {
		return
	}
	messages, err := s.repo.History(s.userID, historyReplayLimit)
	if err != nil {
		logger.Warn("chat: history replay failed for user %s: %v", s.userID, err)
		return
	}
	for _, msg := range messages {
		frameType := domain.ChatUserMessage
		if msg.Role == "assistant" {
			frameType = domain.ChatAssistantComplete
		}
		s.send(MessageReceived{
			Event:   EventMessageReceived,
			Type:    frameType,
			ID:      msg.ID,
			Content: msg.Content,
		})
	}
}

func (s *Session) handleChatMessage(frame InboundFrame) {
	// chat frames carry the token too; a connection that never
	// authenticated can still prove itself per message
	if !s.Authenticated() {
		claims, err := s.verifier.VerifyToken(frame.Token)
		if err != nil {
			s.send(AuthResponse{Event: EventAuthResponse, Success: false, Error: "authentication required"})
			return
		}
		s.userID = claims.UserID
		if s.onAuth != nil {
			s.onAuth(claims.UserID)
		}
	}

	content := strings.TrimSpace(frame.Content)
	if content == "" {
		return
	}

	if frame.TempID != "" {
		s.pending.Track(frame.TempID, content)
	}

	msg := &domain.ChatMessage{
		ID:      uuid.New().String(),
		UserID:  s.userID,
		Role:    "user",
		Content: content,
	}
	if s.repo != nil {
		if err := s.repo.Append(msg); err != nil {
			logger.Error("chat: failed to persist message for user %s: %v", s.userID, err)
			if frame.TempID != "" {
				s.pending.Fail(frame.TempID)
			}
			return
		}
	}

	// echo with the server id so the client resolves its optimistic copy
	s.send(MessageReceived{
		Event:   EventMessageReceived,
		Type:    domain.ChatUserMessage,
		ID:      msg.ID,
		TempID:  frame.TempID,
		Content: content,
	})
	if frame.TempID != "" {
		s.pending.Confirm(frame.TempID, msg.ID)
	}

	go s.respond(s.userID, content)
}

// respond asks the responder for a reply and streams it back as
// accumulating chunks followed by a completion frame.
func (s *Session) respond(userID, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	reply, err := s.responder.Reply(ctx, userID, message)
	if err != nil {
		logger.Error("chat: assistant reply failed for user %s: %v", userID, err)
		reply = "Sorry, the assistant could not process that message. Please try again."
	}

	replyID := uuid.New().String()
	words := strings.Fields(reply)
	var accumulated strings.Builder
	for i := 0; i < len(words); i += chunkWords {
		end := i + chunkWords
		if end > len(words) {
			end = len(words)
		}
		if accumulated.Len() > 0 {
			accumulated.WriteByte(' ')
		}
		accumulated.WriteString(strings.Join(words[i:end], " "))
		s.send(MessageReceived{
			Event:   EventMessageReceived,
			Type:    domain.ChatAssistantChunk,
			ID:      replyID,
			Content: accumulated.String(),
		})
	}

	s.send(MessageReceived{
		Event:   EventMessageReceived,
		Type:    domain.ChatAssistantComplete,
		ID:      replyID,
		Content: reply,
	})

	if s.repo != nil && err == nil {
		record := &domain.ChatMessage{
			ID:      replyID,
			UserID:  userID,
			Role:    "assistant",
			Content: reply,
		}
		if appendErr := s.repo.Append(record); appendErr != nil {
			logger.Error("chat: failed to persist assistant reply for user %s: %v", userID, appendErr)
		}
	}
}

func (s *Session) send(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("chat: failed to marshal outbound frame: %v", err)
		return
	}
	s.emit(data)
}
