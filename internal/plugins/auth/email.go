package auth

import (
	"fmt"
	"html/template"
	"strings"
)

// magicLinkEmail is the HTML body of the redemption email. Inline styles
// only; mail clients strip stylesheets.
var magicLinkEmail = template.Must(template.New("magiclink").Parse(`
<div style="font-family: -apple-system,BlinkMacSystemFont,system-ui,Segoe UI,Roboto,Arial,sans-serif; line-height: 1.5;">
  <h2 style="margin:0 0 12px 0;">{{.Subject}}</h2>
  <p style="margin:0 0 16px 0;">{{.Description}}</p>
  <p style="margin:0 0 16px 0;">
    <a href="{{.Link}}" style="display:inline-block;padding:12px 18px;background:#111;color:#fff;border-radius:12px;text-decoration:none;">
      {{.ActionText}}
    </a>
  </p>
  <p style="margin:0;color:#888;font-size:12px;">Если вы не запрашивали {{.IgnoreHint}} — просто проигнорируйте это письмо.</p>
</div>
`))

// emailData feeds the magicLinkEmail template.
type emailData struct {
	Subject     string
	Description string
	ActionText  string
	Link        string
	IgnoreHint  string
}

// buildEmail renders the subject and HTML body for a magic-link email in
// the given mode.
func buildEmail(mode, link string) (subject, body string, err error) {
	isLogin := mode == ModeLogin

	data := emailData{
		Subject:     "Регистрация в SYUDA",
		Description: "Нажмите на кнопку ниже, чтобы завершить регистрацию. Ссылка действует 15 минут.",
		ActionText:  "Зарегистрироваться",
		IgnoreHint:  "регистрацию",
		Link:        link,
	}
	if isLogin {
		data.Subject = "Вход в SYUDA"
		data.Description = "Нажмите на кнопку ниже, чтобы войти в свой аккаунт. Ссылка действует 15 минут."
		data.ActionText = "Войти"
		data.IgnoreHint = "вход"
	}

	var sb strings.Builder
	if err := magicLinkEmail.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("rendering magic-link email: %w", err)
	}

	return data.Subject, sb.String(), nil
}
