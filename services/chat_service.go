//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/runtime"
	"context"
)

type IChatService interface {
	Connect(ctx context.Context, credential string, outbound contract.Outbound) (*runtime.Session, error)
	Receive(ctx context.Context, session *runtime.Session, data []byte) (domain.Message, domain.Delivery, error)
	Disconnect(session *runtime.Session)
	Conversation(ctx context.Context, query domain.ConversationQuery) ([]domain.Message, error)
	LiveSessions() int
	CloseAll() int
}

type ChatService struct {
	router *runtime.Router
}

func NewChatService(router *runtime.Router) *ChatService {
	return &ChatService{router: router}
}

func (s *ChatService) Connect(ctx context.Context, credential string, outbound contract.Outbound) (*runtime.Session, error) {
	return s.router.Connect(ctx, credential, outbound)
}

func (s *ChatService) Receive(ctx context.Context, session *runtime.Session, data []byte) (domain.Message, domain.Delivery, error) {
	return s.router.HandleInbound(ctx, session, data)
}

func (s *ChatService) Disconnect(session *runtime.Session) {
	s.router.Disconnect(session)
}

func (s *ChatService) Conversation(ctx context.Context, query domain.ConversationQuery) ([]domain.Message, error) {
	return s.router.Conversation(ctx, query)
}

func (s *ChatService) LiveSessions() int {
	return s.router.LiveSessions()
}

func (s *ChatService) CloseAll() int {
	return s.router.CloseAll()
}
