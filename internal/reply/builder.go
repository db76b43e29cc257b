package reply

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/zenithlab/zenith-bot/internal/catalog"
)

// Keys and values carried in Button.Data for navigation buttons.
const (
	DataCategory    = "category"
	DataSubCategory = "subCategory"
	DataAction      = "action"

	ActionRestart      = "restart"
	ActionConsultation = "consultation"
	ActionOtherService = "other_service"
)

// Utterances submitted by the fixed navigation buttons. They also satisfy the
// free-text matching rules, so a client that drops the extra still routes.
const (
	ReplyRestart      = "처음으로"
	ReplyConsultation = "상담원 연결"
	ReplyOtherService = "다른 서비스 보기"
)

const (
	welcomeText      = "안녕하세요 고객님,\n오늘은 어떤 서비스가 필요해서 찾아오셨나요?"
	reselectText     = "죄송합니다. 다시 서비스를 선택해주세요."
	useButtonsText   = "버튼을 클릭해주세요."
	agentNotifiedMsg = "상담원이 곧 연락드리겠습니다. 감사합니다!"
	selectLabel      = "선택하기"
)

var palette = [...]string{"4CAF50", "2196F3", "FF9800", "9C27B0", "F44336", "00BCD4", "795548", "607D8B"}

// Color returns the palette entry for carousel position i (i >= 0).
func Color(i int) string {
	return palette[i%len(palette)]
}

// ImageURL builds the placeholder thumbnail for carousel position i. The
// title is query-escaped with spaces as %20.
func ImageURL(i int, title string) string {
	text := strings.ReplaceAll(url.QueryEscape(title), "+", "%20")
	return fmt.Sprintf("https://via.placeholder.com/300x200/%s/FFFFFF?text=%s", Color(i), text)
}

// Builder assembles payloads from catalog content. It holds no mutable
// state, so one Builder serves all requests.
type Builder struct {
	cat *catalog.Catalog
}

func NewBuilder(cat *catalog.Catalog) *Builder {
	return &Builder{cat: cat}
}

// Welcome greets the user and lists every category.
func (b *Builder) Welcome() Payload {
	cats := b.cat.Categories()
	items := make([]Card, len(cats))
	for i, c := range cats {
		items[i] = Card{
			Title:       c.Name,
			Description: c.Description,
			ImageURL:    ImageURL(i, c.Name),
			Buttons: []Button{
				navigate(selectLabel, c.Name, DataCategory, string(c.Code)),
			},
		}
	}
	return Payload{TextBlock(welcomeText), CarouselBlock(items)}
}

// SubCategories lists the sub-categories of code.
func (b *Builder) SubCategories(code catalog.Code) (Payload, error) {
	subs, err := b.cat.SubCategories(code)
	if err != nil {
		return nil, fmt.Errorf("building sub-category menu: %w", err)
	}
	cat, _ := b.cat.Category(code)

	items := make([]Card, len(subs))
	for i, s := range subs {
		items[i] = Card{
			Title:       s.Title,
			Description: s.Description,
			ImageURL:    ImageURL(i, s.Title),
			Buttons: []Button{
				navigate(selectLabel, s.Title, DataSubCategory, s.Title),
			},
		}
	}

	text := fmt.Sprintf("%s 서비스를 선택하셨습니다.\n어떤 세부 서비스를 원하시나요?", cat.Name)
	return Payload{TextBlock(text), CarouselBlock(items)}, nil
}

// ServiceDetail describes key, falling back to generated text on a catalog
// miss, followed by the consult / other service / restart card.
func (b *Builder) ServiceDetail(key string) Payload {
	d := b.cat.Detail(key)
	return Payload{
		TextBlock(d.Description),
		CardBlock(Card{
			Title:       "상담 신청",
			Description: "더 자세한 상담을 원하시면 상담원과 연결해드립니다.",
			Buttons: []Button{
				navigate(ReplyConsultation, ReplyConsultation, DataAction, ActionConsultation),
				navigate(ReplyOtherService, ReplyOtherService, DataAction, ActionOtherService),
				restartButton(ReplyRestart),
			},
		}),
	}
}

// Consultation renders the contact sheet with one link per channel.
func (b *Builder) Consultation() Payload {
	ct := b.cat.Contact()
	text := fmt.Sprintf("상담원 연결을 도와드리겠습니다.\n\n"+
		"📞 전화 상담: %s\n"+
		"💬 카카오톡: %s\n"+
		"📧 이메일: %s\n\n"+
		"상담 가능 시간: %s\n\n"+
		"어떤 방법으로 상담받고 싶으신가요?", ct.Phone, ct.KakaoChannel, ct.Email, ct.Hours)

	return Payload{
		TextBlock(text),
		CardBlock(Card{
			Title:       "상담 방법 선택",
			Description: "원하시는 상담 방법을 선택해주세요",
			Buttons: []Button{
				link("전화 상담", ct.PhoneURL),
				link("카카오톡 채널", ct.KakaoURL),
				link("이메일 보내기", ct.EmailURL),
				restartButton(ReplyRestart),
			},
		}),
	}
}

// Reselect is shown when the main-category input matched nothing.
func (b *Builder) Reselect() Payload {
	return Payload{
		TextBlock(reselectText),
		CardBlock(Card{
			Title:       "서비스 다시 선택",
			Description: "원하시는 서비스를 다시 선택해주세요",
			Buttons:     []Button{restartButton("서비스 목록 보기")},
		}),
	}
}

func (b *Builder) UseButtons() Payload {
	return Payload{TextBlock(useButtonsText)}
}

func (b *Builder) AgentNotified() Payload {
	return Payload{TextBlock(agentNotifiedMsg)}
}

func navigate(label, reply, key, value string) Button {
	return Button{
		Label:  label,
		Action: Navigate,
		Reply:  reply,
		Data:   map[string]string{key: value},
	}
}

func restartButton(label string) Button {
	return navigate(label, ReplyRestart, DataAction, ActionRestart)
}

func link(label, target string) Button {
	return Button{Label: label, Action: ExternalLink, URL: target}
}
