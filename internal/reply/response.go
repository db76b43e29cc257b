package reply

// Payload is the ordered list of blocks sent back for one user turn.
// It is platform-neutral; the kakao package converts it to skill outputs.
type Payload []Block

// BlockKind tags which variant of Block is populated.
type BlockKind int

const (
	KindText BlockKind = iota
	KindCarousel
	KindCard
)

// Block is a tagged variant: exactly one of Text, Carousel or Card is set,
// according to Kind.
type Block struct {
	Kind     BlockKind
	Text     string
	Carousel []Card
	Card     *Card
}

type Card struct {
	Title       string
	Description string
	ImageURL    string // empty for standalone cards
	Buttons     []Button
}

// Action tells the platform what a button does when pressed.
type Action int

const (
	// Navigate submits Reply back to the webhook as the next utterance,
	// together with Data as machine-readable extra.
	Navigate Action = iota
	// ExternalLink opens URL outside the chat.
	ExternalLink
)

type Button struct {
	Label  string
	Action Action
	Reply  string
	Data   map[string]string
	URL    string
}

func TextBlock(text string) Block {
	return Block{Kind: KindText, Text: text}
}

func CarouselBlock(items []Card) Block {
	return Block{Kind: KindCarousel, Carousel: items}
}

func CardBlock(c Card) Block {
	return Block{Kind: KindCard, Card: &c}
}

// Texts returns the text of every text block, in order.
func (p Payload) Texts() []string {
	var out []string
	for _, b := range p {
		if b.Kind == KindText {
			out = append(out, b.Text)
		}
	}
	return out
}
