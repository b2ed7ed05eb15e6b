package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/octobees/whatsapp-leads/api/internal/repository"
)

const defaultPhoneRegion = "BR"

var idnaProfile = idna.Lookup

// NormalizePhone returns the number as international digits (E.164 without the plus sign).
// Numbers the region metadata rejects are kept as plain digits when they have a plausible length.
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	digits := repository.Digits(raw)
	if digits == "" {
		return "", ErrInvalidPhone
	}
	if region == "" {
		region = defaultPhoneRegion
	}

	number, err := phonenumbers.Parse(raw, region)
	if err == nil && phonenumbers.IsValidNumber(number) {
		return strings.TrimPrefix(phonenumbers.Format(number, phonenumbers.E164), "+"), nil
	}
	if len(digits) >= 10 && len(digits) <= 15 {
		return digits, nil
	}
	return "", ErrInvalidPhone
}

// PhoneCandidates lists the digit forms a stored phone may take: as typed, international and national.
func PhoneCandidates(raw, region string) []string {
	if region == "" {
		region = defaultPhoneRegion
	}
	seen := make(map[string]struct{})
	var out []string
	add := func(v string) {
		if v == "" {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	add(repository.Digits(raw))
	if number, err := phonenumbers.Parse(strings.TrimSpace(raw), region); err == nil {
		add(strings.TrimPrefix(phonenumbers.Format(number, phonenumbers.E164), "+"))
		add(phonenumbers.GetNationalSignificantNumber(number))
	}
	return out
}

// NormalizeGatewayURL validates the URL and returns it with an ASCII (IDNA) host and no trailing slash.
func NormalizeGatewayURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "", ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	host, err := idnaProfile.ToASCII(strings.ToLower(u.Hostname()))
	if err != nil || !isDomainValid(host) {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, u.Hostname())
	}
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	u.Host = host
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/"), nil
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return domain == "localhost"
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
