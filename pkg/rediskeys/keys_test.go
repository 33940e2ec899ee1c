package rediskeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationKey(t *testing.T) {
	testCases := []struct {
		name string
		a, b int64
		want string
	}{
		{name: "ascending", a: 1, b: 2, want: "chat:1:2"},
		{name: "descending", a: 2, b: 1, want: "chat:1:2"},
		{name: "self", a: 7, b: 7, want: "chat:7:7"},
		{name: "large_ids", a: 90210, b: 3, want: "chat:3:90210"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ConversationKey(tc.a, tc.b))
		})
	}
}
