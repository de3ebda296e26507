package request

import "strings"

type ClientType string

const (
	ClientWeb    ClientType = "web"
	ClientMobile ClientType = "mobile"
	ClientAPI    ClientType = "api"
)

// ResolveClientType prefers the explicit X-Client-Type header and falls
// back to sniffing the user agent.
func ResolveClientType(header, userAgent string) ClientType {
	switch ClientType(strings.ToLower(strings.TrimSpace(header))) {
	case ClientWeb:
		return ClientWeb
	case ClientMobile:
		return ClientMobile
	case ClientAPI:
		return ClientAPI
	}

	ua := strings.ToLower(userAgent)
	switch {
	case ua == "":
		return ClientAPI
	case strings.Contains(ua, "okhttp"), strings.Contains(ua, "dart"), strings.Contains(ua, "cfnetwork"):
		return ClientMobile
	case strings.Contains(ua, "mozilla"):
		return ClientWeb
	}
	return ClientAPI
}

func IsWebClient(t ClientType) bool {
	return t == ClientWeb
}
