package domain

// Snippet — заранее подготовленный текст для копирования в буфер обмена и скачивания.
type Snippet struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Filename string `json:"filename" yaml:"filename"`
	Content  string `json:"content,omitempty" yaml:"-"`
}
