package notify

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/liemthanh24/notekeeper/pkg/scheduler"
)

// Discord pushes fired-alarm notifications to one channel.
type Discord struct {
	Session   *discordgo.Session
	ChannelID string
}

// Ensure Discord implements scheduler.Notifier
var _ scheduler.Notifier = (*Discord)(nil)

// NewDiscord creates a Discord notifier and opens the session.
func NewDiscord(token, channelID string) (*Discord, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening Discord session: %w", err)
	}
	return &Discord{Session: dg, ChannelID: channelID}, nil
}

// Close closes the underlying session.
func (d *Discord) Close() error {
	return d.Session.Close()
}

func (d *Discord) Notify(ev scheduler.Event) {
	if _, err := d.Session.ChannelMessageSend(d.ChannelID, Message(ev)); err != nil {
		log.Printf("notify: failed to send Discord notification for alarm %d: %v", ev.Alarm.ID, err)
	}
}
