package notifier

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/flight-booking-api/internal/config"
	"github.com/gdg-garage/flight-booking-api/internal/logging"
	"github.com/gdg-garage/flight-booking-api/internal/models"
)

type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts booking activity to an ops channel. Delivery is best
// effort: failures are logged and never fail the booking.
type DiscordNotifier struct {
	session   messageSender
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// FromConfig returns nil when no bot token is configured.
func FromConfig(cfg *config.Config) (*DiscordNotifier, error) {
	if cfg.DiscordBotToken == "" {
		return nil, nil
	}
	if cfg.DiscordNotificationsChannelID == "" {
		return nil, fmt.Errorf("DISCORD_NOTIFICATIONS_CHANNEL_ID is required with DISCORD_BOT_TOKEN")
	}
	s, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return NewDiscordNotifier(s, cfg.DiscordNotificationsChannelID), nil
}

func (n *DiscordNotifier) NotifyBooking(_ context.Context, b *models.Booking, c *models.Customer) {
	n.send(FormatBooking(b, c), b.Ref)
}

func (n *DiscordNotifier) NotifyCancellation(_ context.Context, b *models.Booking) {
	n.send(FormatCancellation(b), b.Ref)
}

func (n *DiscordNotifier) send(message, ref string) {
	if n == nil || n.session == nil || n.channelID == "" {
		return
	}
	if _, err := n.session.ChannelMessageSend(n.channelID, message); err != nil {
		logging.Warn("Failed to send discord message", "ref", ref, "error", err.Error())
	}
}

func FormatBooking(b *models.Booking, c *models.Customer) string {
	kind := "one way"
	if b.ReturnScheduleID != nil {
		kind = "return"
	}
	total := b.DepartPrice
	if b.ReturnPrice != nil {
		total += *b.ReturnPrice
	}
	return fmt.Sprintf("✈️ **New Booking** `%s`\n**Customer:** %s %s (%s)\n**Trip:** %s, flight #%d\n**Tickets:** %d\n**Total:** $%.2f",
		b.Ref,
		c.FirstName,
		c.LastName,
		c.Email,
		kind,
		b.DepartScheduleID,
		b.Tickets,
		total*float64(b.Tickets),
	)
}

func FormatCancellation(b *models.Booking) string {
	return fmt.Sprintf("❌ **Booking Cancelled** `%s`\n**Seats released:** %d per leg", b.Ref, b.Tickets)
}
