package domain

// Selection — упорядоченное множество выбранных идентификаторов страницы.
// Порядок соответствует порядку выбора.
type Selection struct {
	items []string
}

func (s *Selection) Has(id string) bool {
	for _, it := range s.items {
		if it == id {
			return true
		}
	}
	return false
}

// Toggle добавляет id, если его нет, и удаляет, если он уже выбран.
// Возвращает true, если после вызова id выбран.
func (s *Selection) Toggle(id string) bool {
	for i, it := range s.items {
		if it == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return false
		}
	}
	s.items = append(s.items, id)
	return true
}

// Pick оставляет выбранным только id (одиночный выбор).
func (s *Selection) Pick(id string) {
	s.items = []string{id}
}

func (s *Selection) Clear() { s.items = nil }

func (s *Selection) Len() int { return len(s.items) }

// Items возвращает копию выбранных идентификаторов.
func (s *Selection) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// First возвращает единственный (или первый) выбранный элемент.
func (s *Selection) First() (string, bool) {
	if len(s.items) == 0 {
		return "", false
	}
	return s.items[0], true
}
