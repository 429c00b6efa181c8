package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_AccountCreated(t *testing.T) {
	at := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	data := NewAccountEmailData(AccountCreated, 7, "Alice", "a@x.com", WithTime(at), WithCompany("Acme", "Directory"))

	subject, text, html, err := Render(AccountCreated, data)
	require.NoError(t, err)

	assert.Equal(t, "Welcome to Directory, Alice", subject)
	assert.Contains(t, text, "#7")
	assert.Contains(t, text, "05 March 2024, 14:30")
	assert.Contains(t, text, "Acme")
	assert.Contains(t, html, "<strong>#7</strong>")
}

func TestRender_AccountDeletedDefaults(t *testing.T) {
	data := NewAccountEmailData(AccountDeleted, 3, "Bob", "b@x.com")

	subject, text, _, err := Render(AccountDeleted, data)
	require.NoError(t, err)

	assert.Equal(t, "Your user directory account has been deleted", subject)
	assert.Contains(t, text, "just now")
	assert.Contains(t, text, "our support team")
}

func TestRender_EscapesHTML(t *testing.T) {
	data := NewAccountEmailData(AccountCreated, 1, "<script>x</script>", "a@x.com")

	_, text, html, err := Render(AccountCreated, data)
	require.NoError(t, err)

	assert.Contains(t, text, "<script>x</script>")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("missing", EmailData{})
	assert.Error(t, err)
}
