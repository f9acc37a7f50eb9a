package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMobile(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      bool
	}{
		{"Android browser", "Mozilla/5.0 (Linux; Android 13; Pixel 7) Chrome/119 Mobile Safari/537.36", true},
		{"iPhone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Safari/604.1", true},
		{"iPad", "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X)", true},
		{"Desktop", "Mozilla/5.0 (X11; Linux x86_64) Chrome/119 Safari/537.36", false},
		{"Empty", "", false},
		{"Curl", "curl/8.4.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isMobile(tt.userAgent))
		})
	}
}
