package kakao

import (
	"github.com/zenithlab/zenith-bot/internal/conversation"
	"github.com/zenithlab/zenith-bot/internal/reply"
)

// NewSkillResponse wraps a payload in the version 2.0 skill envelope.
func NewSkillResponse(p reply.Payload) SkillResponse {
	return SkillResponse{
		Version:  skillVersion,
		Template: SkillTemplate{Outputs: toOutputs(p)},
	}
}

func toOutputs(p reply.Payload) []Output {
	outs := make([]Output, 0, len(p))
	for _, b := range p {
		switch b.Kind {
		case reply.KindText:
			outs = append(outs, Output{SimpleText: &SimpleText{Text: b.Text}})
		case reply.KindCarousel:
			items := make([]BasicCard, len(b.Carousel))
			for i, c := range b.Carousel {
				items[i] = toBasicCard(c)
			}
			outs = append(outs, Output{Carousel: &Carousel{Type: "basicCard", Items: items}})
		case reply.KindCard:
			if b.Card != nil {
				card := toBasicCard(*b.Card)
				outs = append(outs, Output{BasicCard: &card})
			}
		}
	}
	return outs
}

func toBasicCard(c reply.Card) BasicCard {
	card := BasicCard{
		Title:       c.Title,
		Description: c.Description,
		Buttons:     toButtons(c.Buttons),
	}
	if c.ImageURL != "" {
		card.Thumbnail = &Thumbnail{ImageURL: c.ImageURL}
	}
	return card
}

func toButtons(buttons []reply.Button) []Button {
	out := make([]Button, len(buttons))
	for i, b := range buttons {
		switch b.Action {
		case reply.ExternalLink:
			out[i] = Button{Action: "webLink", Label: b.Label, WebLinkURL: b.URL}
		default:
			out[i] = Button{Action: "message", Label: b.Label, MessageText: b.Reply, Extra: b.Data}
		}
	}
	return out
}

// Input extracts the conversation input from a skill request. Only string
// values of clientExtra are kept.
func (r SkillRequest) Input() conversation.Input {
	in := conversation.Input{Utterance: r.UserRequest.Utterance}
	for k, v := range r.Action.ClientExtra {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		if in.Extra == nil {
			in.Extra = make(map[string]string)
		}
		in.Extra[k] = s
	}
	return in
}
