package whatsapp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
	"testing"
)

func signFor(authToken, requestURL string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	// Build the payload the same way Twilio documents it.
	sort.Strings(keys)

	payload := requestURL
	for _, key := range keys {
		for _, value := range params[key] {
			payload += key + value
		}
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidateSignature_Valid(t *testing.T) {
	params := url.Values{}
	params.Set("From", "whatsapp:+31612345678")
	params.Set("Body", "Hello, I am interested")
	params.Set("SmsSid", "SM123")

	requestURL := "https://example.com/api/webhooks/whatsapp"
	signature := signFor("secret-token", requestURL, params)

	if !ValidateSignature("secret-token", requestURL, params, signature) {
		t.Fatal("expected valid signature to pass")
	}
}

func TestValidateSignature_WrongToken(t *testing.T) {
	params := url.Values{}
	params.Set("Body", "hello")

	requestURL := "https://example.com/api/webhooks/whatsapp"
	signature := signFor("other-token", requestURL, params)

	if ValidateSignature("secret-token", requestURL, params, signature) {
		t.Fatal("expected signature from wrong token to fail")
	}
}

func TestValidateSignature_TamperedParams(t *testing.T) {
	params := url.Values{}
	params.Set("Body", "hello")

	requestURL := "https://example.com/api/webhooks/whatsapp"
	signature := signFor("secret-token", requestURL, params)

	params.Set("Body", "goodbye")
	if ValidateSignature("secret-token", requestURL, params, signature) {
		t.Fatal("expected tampered params to fail validation")
	}
}

func TestValidateSignature_EmptyParams(t *testing.T) {
	requestURL := "https://example.com/api/webhooks/whatsapp"
	signature := signFor("secret-token", requestURL, url.Values{})

	if !ValidateSignature("secret-token", requestURL, url.Values{}, signature) {
		t.Fatal("expected empty-param signature to validate")
	}
}
