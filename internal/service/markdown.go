package service

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Конфигурация goldmark неизменна, поэтому парсер создается один раз
// и переиспользуется. Сырой HTML из тела остается экранированным.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		)
	})
	return markdownInstance
}

// RenderMarkdown преобразует markdown-тело блога в HTML.
func RenderMarkdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := getMarkdown().Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("ошибка рендеринга markdown: %w", err)
	}
	return buf.String(), nil
}
