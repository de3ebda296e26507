package request_test

import (
	"testing"

	"go-leave/internal/shared/request"

	"github.com/stretchr/testify/assert"
)

func TestResolveClientType(t *testing.T) {
	cases := []struct {
		name   string
		header string
		ua     string
		want   request.ClientType
	}{
		{"explicit web", "Web", "", request.ClientWeb},
		{"explicit mobile", "mobile", "Mozilla/5.0", request.ClientMobile},
		{"browser ua", "", "Mozilla/5.0 (X11; Linux x86_64)", request.ClientWeb},
		{"android ua", "", "okhttp/4.9.0", request.ClientMobile},
		{"curl", "", "curl/8.0", request.ClientAPI},
		{"empty", "", "", request.ClientAPI},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, request.ResolveClientType(tc.header, tc.ua))
		})
	}
	assert.True(t, request.IsWebClient(request.ClientWeb))
	assert.False(t, request.IsWebClient(request.ClientAPI))
}
