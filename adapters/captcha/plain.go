package captcha

import "github.com/openpress/warden/ports"

// PlainRenderer returns the answer text verbatim. Deployments front this
// with a real image renderer; the plain form serves development and tests.
type PlainRenderer struct{}

// NewPlainRenderer creates a new plain-text renderer.
func NewPlainRenderer() ports.CaptchaRenderer {
	return &PlainRenderer{}
}

// Render returns the answer as text/plain bytes.
func (r *PlainRenderer) Render(answer string) ([]byte, string, error) {
	return []byte(answer), "text/plain", nil
}
