package whatsapp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"net/url"
	"sort"
)

// ValidateSignature checks a Twilio X-Twilio-Signature header. The expected
// signature is the base64 HMAC-SHA1 of the full request URL with every form
// parameter appended in lexicographic key order (key immediately followed by
// value, no separators).
func ValidateSignature(authToken, requestURL string, params url.Values, signature string) bool {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	payload := requestURL
	for _, key := range keys {
		for _, value := range params[key] {
			payload += key + value
		}
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(payload))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
