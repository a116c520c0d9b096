package classify

import (
	"context"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Field is one named embed field, order-significant.
type Field struct {
	Name  string
	Value string
}

// Embed is the single rendered display panel a game message may carry.
type Embed struct {
	Title         string
	Description   string
	AuthorName    string
	AuthorIconURL string
	FooterText    string
	Fields        []Field
}

// Message is the platform-independent view of an inbound chat message,
// shaped after the boundary in the external interface: exactly the zones
// the classifier and the identity resolver consume.
type Message struct {
	ID        snowflake.ID
	AuthorID  snowflake.ID
	ChannelID snowflake.ID
	GuildID   snowflake.ID
	CreatedAt time.Time

	Content string
	Embed   *Embed

	// InteractionUserID is the invoking identity when the message was
	// produced in direct response to a structured interaction; zero
	// otherwise.
	InteractionUserID snowflake.ID

	Mentions []snowflake.ID

	// FetchReference resolves the message this one replies to. Nil when the
	// message carries no reference.
	FetchReference func(ctx context.Context) (*Message, error)
}

func (m *Message) title() string {
	if m.Embed == nil {
		return ""
	}
	return strings.ToLower(m.Embed.Title)
}

func (m *Message) description() string {
	if m.Embed == nil {
		return ""
	}
	return strings.ToLower(m.Embed.Description)
}

func (m *Message) author() string {
	if m.Embed == nil {
		return ""
	}
	return strings.ToLower(m.Embed.AuthorName)
}

func (m *Message) footer() string {
	if m.Embed == nil {
		return ""
	}
	return strings.ToLower(m.Embed.FooterText)
}

// fieldsText joins all field values with newlines, the way the game's
// multi-field cooldown overview is scanned as one block.
func (m *Message) fieldsText() string {
	if m.Embed == nil {
		return ""
	}
	var sb strings.Builder
	for _, f := range m.Embed.Fields {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(f.Value)
	}
	return strings.ToLower(sb.String())
}

func (m *Message) field(i int) Field {
	if m.Embed == nil || i >= len(m.Embed.Fields) {
		return Field{}
	}
	f := m.Embed.Fields[i]
	return Field{Name: strings.ToLower(f.Name), Value: strings.ToLower(f.Value)}
}

func (m *Message) content() string {
	return strings.ToLower(m.Content)
}

// IconURL returns the embed author icon URL, if any.
func (m *Message) IconURL() string {
	if m.Embed == nil {
		return ""
	}
	return m.Embed.AuthorIconURL
}

// AuthorName returns the raw (case-preserving) embed author line.
func (m *Message) AuthorName() string {
	if m.Embed == nil {
		return ""
	}
	return m.Embed.AuthorName
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
