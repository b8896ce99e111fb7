package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const (
	TemplateVerification = "verification"

	VerificationSubject = "Verify email"
)

const verificationTemplate = `<a target="_blank" href="{{.VerifyURL}}">Click verify email</a>`

// TemplateManager реализует TemplateRenderer для управления шаблонами email
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	if err := tm.AddTemplate(TemplateVerification, verificationTemplate); err != nil {
		panic(err)
	}
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

// VerificationEmail собирает письмо со ссылкой подтверждения
func VerificationEmail(r TemplateRenderer, to, verifyURL string) (*Email, error) {
	body, err := r.Render(TemplateVerification, TemplateData{"VerifyURL": verifyURL})
	if err != nil {
		return nil, err
	}
	return &Email{
		To:       []string{to},
		Subject:  VerificationSubject,
		HTMLBody: body,
	}, nil
}
