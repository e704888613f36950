package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketDetails(t *testing.T) {
	tests := []struct {
		suffix   string
		username string
		name     string
		topic    string
	}{
		{"", "Steve", "ticket-steve", "Support ticket for Steve"},
		{"revenant_3", "Steve", "revenant-t3-steve", "Revenant slayer tier 3 carry for Steve"},
		{"blaze_4", "AlexPlays", "blaze-t4-alexplays", "Blaze slayer tier 4 carry for AlexPlays"},
		{"vampire_5", "Ace", "vampire-t5-ace", "Vampire slayer tier 5 carry for Ace"},
		{"malformed", "Ace", "ticket-ace", "Support ticket for Ace"},
		{"_3", "Ace", "ticket-ace", "Support ticket for Ace"},
	}
	for _, tt := range tests {
		name, topic := ticketDetails(tt.suffix, tt.username)
		assert.Equal(t, tt.name, name, "suffix %q", tt.suffix)
		assert.Equal(t, tt.topic, topic, "suffix %q", tt.suffix)
	}
}
