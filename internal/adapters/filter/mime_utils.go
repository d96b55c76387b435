package filter

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/htmlindex"
)

// maxMIMEDepth bounds recursion into nested multipart bodies
const maxMIMEDepth = 5

type headerGetter interface {
	Get(key string) string
}

// messageText collects the readable parts of a message
type messageText struct {
	plain []string
	html  []string
}

// extractTextFromMessage returns the text a reader would see. text/plain
// parts win; otherwise text/html parts are reduced to text with their link
// targets appended so they can still be scanned.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	var text messageText
	if err := text.walk(msg.Header, msg.Body, 0); err != nil {
		return "", err
	}

	if len(text.plain) > 0 {
		return strings.Join(text.plain, "\n"), nil
	}
	if len(text.html) > 0 {
		return strings.Join(text.html, "\n"), nil
	}
	return "", nil
}

func (t *messageText) walk(header headerGetter, body io.Reader, depth int) error {
	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		// Missing or broken Content-Type: treat as plain text
		mediaType, params = "text/plain", map[string]string{}
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" || depth >= maxMIMEDepth {
			return nil
		}

		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				// Keep whatever was readable before the damage
				return nil
			}
			if err := t.walk(part.Header, part, depth+1); err != nil {
				return err
			}
		}
	}

	if mediaType != "text/plain" && mediaType != "text/html" {
		return nil
	}

	content, err := io.ReadAll(decodeBody(header, body, params["charset"]))
	if err != nil {
		return err
	}

	if mediaType == "text/html" {
		text, err := htmlToText(content)
		if err != nil {
			return err
		}
		t.html = append(t.html, text)
		return nil
	}

	t.plain = append(t.plain, string(content))
	return nil
}

// decodeBody undoes the transfer encoding, then converts the charset to UTF-8
func decodeBody(header headerGetter, body io.Reader, charset string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(header.Get("Content-Transfer-Encoding"))) {
	case "quoted-printable":
		// Parts from multipart.Reader arrive decoded with this header removed
		body = quotedprintable.NewReader(body)
	case "base64":
		body = base64.NewDecoder(base64.StdEncoding, body)
	}

	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "us-ascii") {
		return body
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return body
	}
	return enc.NewDecoder().Reader(body)
}

// htmlToText strips markup and appends the href of every http(s) link
func htmlToText(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, head").Remove()

	var b strings.Builder
	b.WriteString(strings.Join(strings.Fields(doc.Text()), " "))

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			b.WriteString(" ")
			b.WriteString(href)
		}
	})

	return b.String(), nil
}

// decodeEncodedHeader decodes RFC 2047 encoded words
func decodeEncodedHeader(value string) (string, error) {
	dec := &mime.WordDecoder{
		CharsetReader: func(charset string, input io.Reader) (io.Reader, error) {
			enc, err := htmlindex.Get(charset)
			if err != nil {
				return nil, err
			}
			return enc.NewDecoder().Reader(input), nil
		},
	}
	return dec.DecodeHeader(value)
}
