package filter

import (
	"bytes"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/utils"
	"github.com/mikey/phish-detector/internal/whitelist"
)

func newTestFilter(t *testing.T, modifySubject bool, trusted []string) *PostfixFilter {
	t.Helper()
	logger := zap.NewNop()
	v := config.NewEmptyViper()
	v.Set("postfix.modify_subject", modifySubject)
	cfg := config.NewFromViper(v).GetPostfix()

	return NewPostfixFilter(
		core.NewDetectorService(core.Unavailable(), nil, logger),
		logger,
		cfg,
		whitelist.NewChecker(trusted, logger),
		utils.NewTextProcessor(logger),
		1<<20,
	)
}

const phishingMessage = "From: Support <support@bank.test>\r\n" +
	"To: victim@example.com\r\n" +
	"Subject: Account notice\r\n" +
	"\r\n" +
	"Please verify your account now.\r\n"

func TestFilterMessage_StampsVerdict(t *testing.T) {
	f := newTestFilter(t, false, nil)

	out, result, err := f.filterMessage("support@bank.test", []byte(phishingMessage))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, core.LabelPhishing, result.Label)

	msg, err := mail.ReadMessage(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "Phishing", msg.Header.Get("X-Phishing-Status"))
	assert.Equal(t, "95.0", msg.Header.Get("X-Phishing-Confidence"))
	assert.Equal(t, "No URLs found in the email. | Strong suspicious words: verify", msg.Header.Get("X-Phishing-Reason"))
	assert.Equal(t, "Account notice", msg.Header.Get("Subject"))
	assert.True(t, strings.HasSuffix(string(out), "\r\n\r\nPlease verify your account now.\r\n"))
}

func TestFilterMessage_ModifiesSubject(t *testing.T) {
	f := newTestFilter(t, true, nil)

	out, _, err := f.filterMessage("support@bank.test", []byte(phishingMessage))
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "[PHISHING] Account notice", msg.Header.Get("Subject"))
}

func TestFilterMessage_LegitimateSubjectUntouched(t *testing.T) {
	f := newTestFilter(t, true, nil)
	raw := "From: a@example.com\r\nSubject: Lunch\r\n\r\nSee you at noon.\r\n"

	out, result, err := f.filterMessage("a@example.com", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, core.LabelLegitimate, result.Label)

	msg, err := mail.ReadMessage(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "Lunch", msg.Header.Get("Subject"))
	assert.Equal(t, "98.0", msg.Header.Get("X-Phishing-Confidence"))
}

func TestFilterMessage_TrustedSender(t *testing.T) {
	f := newTestFilter(t, false, []string{"bank.test"})

	out, result, err := f.filterMessage("support@bank.test", []byte(phishingMessage))
	require.NoError(t, err)
	assert.Nil(t, result)

	msg, err := mail.ReadMessage(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "Trusted", msg.Header.Get("X-Phishing-Status"))
}

func TestFilterMessage_Unparseable(t *testing.T) {
	f := newTestFilter(t, false, nil)

	_, _, err := f.filterMessage("a@example.com", []byte("not a message"))
	assert.Error(t, err)
}

func TestRewriteSubject_Folded(t *testing.T) {
	head := []byte("From: a@example.com\r\nSubject: first\r\n second\r\nTo: b@example.com\r\n")

	out := string(rewriteSubject(head, "[P] "))

	assert.Equal(t, "From: a@example.com\r\nSubject: [P] first second\r\nTo: b@example.com\r\n", out)
}

func TestRewriteSubject_Missing(t *testing.T) {
	out := string(rewriteSubject([]byte("From: a@example.com\r\n"), "[P] "))

	assert.Equal(t, "From: a@example.com\r\nSubject: [P]\r\n", out)
}

func TestSanitizeHeaderValue(t *testing.T) {
	assert.Equal(t, "a  b", sanitizeHeaderValue("a\r\nb"))
}
