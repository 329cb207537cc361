package service

import (
	"strings"
	"unicode"

	"github.com/xela07ax/intellibridge-console/internal/domain"
)

// AssistantService отвечает на сообщения плавающего виджета.
// Ответ выбирается по ключевым словам из каталога, анализа нет.
type AssistantService struct {
	cfg domain.Assistant
}

func NewAssistantService(cfg domain.Assistant) *AssistantService {
	return &AssistantService{cfg: cfg}
}

func (s *AssistantService) Greeting() domain.AssistantReply {
	return domain.AssistantReply{Message: s.cfg.Greeting, Suggestions: s.cfg.Suggestions}
}

// Reply возвращает первую тему, ключевое слово которой встретилось в сообщении.
func (s *AssistantService) Reply(message string) domain.AssistantReply {
	words := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return s.Greeting()
	}

	for _, topic := range s.cfg.Topics {
		for _, kw := range topic.Keywords {
			for _, w := range words {
				// "scanning" тоже про scan
				if strings.HasPrefix(w, kw) {
					return domain.AssistantReply{Message: topic.Reply, Link: topic.Path}
				}
			}
		}
	}
	return s.Greeting()
}
