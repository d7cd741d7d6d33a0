// Package content загружает тексты бота: приветствие, информационные страницы и FAQ.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// FAQEntry - вопрос и ответ, key используется в callback data "faq_<key>".
type FAQEntry struct {
	Key      string `yaml:"key"`
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Content - тексты бота.
type Content struct {
	Greeting string            `yaml:"greeting"`
	Pages    map[string]string `yaml:"pages"`
	FAQ      []FAQEntry        `yaml:"faq"`
}

// Default возвращает встроенные тексты.
func Default() *Content {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("content: встроенный default.yaml невалиден: %v", err))
	}
	return c
}

// Load читает тексты из файла. Пустой путь - встроенные тексты.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: чтение %s: %w", path, err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", path, err)
	}
	logrus.WithField("path", path).Info("Тексты бота загружены из файла")
	return c, nil
}

// Parse разбирает YAML и проверяет обязательные поля.
func Parse(raw []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("разбор YAML: %w", err)
	}
	if strings.TrimSpace(c.Greeting) == "" {
		return nil, fmt.Errorf("не задано приветствие (greeting)")
	}
	seen := make(map[string]bool, len(c.FAQ))
	for _, f := range c.FAQ {
		if f.Key == "" || f.Question == "" {
			return nil, fmt.Errorf("FAQ: пустой key или question")
		}
		if seen[f.Key] {
			return nil, fmt.Errorf("FAQ: повторяющийся key %q", f.Key)
		}
		seen[f.Key] = true
	}
	c.Greeting = strings.TrimRight(c.Greeting, "\n")
	return &c, nil
}

// Page возвращает текст страницы по тексту кнопки.
func (c *Content) Page(button string) (string, bool) {
	body, ok := c.Pages[button]
	return strings.TrimRight(body, "\n"), ok
}

// FAQAnswer ищет ответ по ключу.
func (c *Content) FAQAnswer(key string) (FAQEntry, bool) {
	for _, f := range c.FAQ {
		if f.Key == key {
			return f, true
		}
	}
	return FAQEntry{}, false
}
