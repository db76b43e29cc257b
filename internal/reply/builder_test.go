package reply

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/zenithlab/zenith-bot/internal/catalog"
)

func newTestBuilder() *Builder {
	return NewBuilder(catalog.Default())
}

func TestColorIsPureFunctionOfIndex(t *testing.T) {
	want := []string{"4CAF50", "2196F3", "FF9800", "9C27B0", "F44336", "00BCD4", "795548", "607D8B"}
	for i := 0; i < 64; i++ {
		if got := Color(i); got != want[i%8] {
			t.Fatalf("Color(%d) = %s, expected %s", i, got, want[i%8])
		}
	}
}

func TestImageURLEscapesTitle(t *testing.T) {
	got := ImageURL(9, "챗봇 제작")
	if !strings.HasPrefix(got, "https://via.placeholder.com/300x200/2196F3/FFFFFF?text=") {
		t.Fatalf("unexpected prefix: %s", got)
	}
	if strings.Contains(got, " ") || strings.Contains(got, "+") {
		t.Errorf("title was not escaped: %s", got)
	}
}

func TestImageURLKeepsReservedCharactersInTitle(t *testing.T) {
	for _, title := range []string{"A&B=C+D", "챗봇 제작", "50% off?", "a/b#c"} {
		u, err := url.Parse(ImageURL(0, title))
		if err != nil {
			t.Fatalf("ImageURL(%q) is not a valid URL: %v", title, err)
		}
		if got := u.Query().Get("text"); got != title {
			t.Errorf("expected text=%q, got %q", title, got)
		}
		if len(u.Query()) != 1 {
			t.Errorf("expected a single query parameter for %q, got %v", title, u.Query())
		}
	}
}

func TestWelcome(t *testing.T) {
	p := newTestBuilder().Welcome()
	if len(p) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(p))
	}
	if p[0].Kind != KindText || !strings.Contains(p[0].Text, "안녕하세요 고객님") {
		t.Fatalf("expected greeting text block, got %+v", p[0])
	}
	if p[1].Kind != KindCarousel {
		t.Fatalf("expected carousel, got kind %d", p[1].Kind)
	}

	titles := []string{"챗봇제작", "상페제작", "마케팅대행", "프로그램제작", "쇼핑몰제작"}
	codes := []string{"chatbot", "landing", "marketing", "program", "shopping"}
	items := p[1].Carousel
	if len(items) != len(titles) {
		t.Fatalf("expected %d cards, got %d", len(titles), len(items))
	}
	for i, c := range items {
		if c.Title != titles[i] {
			t.Errorf("card %d title = %s, expected %s", i, c.Title, titles[i])
		}
		if !strings.Contains(c.ImageURL, "/"+Color(i)+"/") {
			t.Errorf("card %d image %s does not use color %s", i, c.ImageURL, Color(i))
		}
		if len(c.Buttons) != 1 {
			t.Fatalf("card %d: expected 1 button, got %d", i, len(c.Buttons))
		}
		btn := c.Buttons[0]
		if btn.Action != Navigate || btn.Data[DataCategory] != codes[i] || btn.Reply != titles[i] {
			t.Errorf("card %d: unexpected button %+v", i, btn)
		}
	}
}

func TestSubCategoriesChatbot(t *testing.T) {
	p, err := newTestBuilder().SubCategories(catalog.Chatbot)
	if err != nil {
		t.Fatalf("SubCategories: %v", err)
	}
	if !strings.HasPrefix(p[0].Text, "챗봇제작 서비스를 선택하셨습니다.") {
		t.Errorf("unexpected intro %q", p[0].Text)
	}
	want := []string{"카톡챗봇", "텔레그램", "웹사이트챗봇", "인스타그램챗봇", "그외챗봇"}
	items := p[1].Carousel
	if len(items) != len(want) {
		t.Fatalf("expected %d cards, got %d", len(want), len(items))
	}
	for i, c := range items {
		if c.Title != want[i] {
			t.Errorf("card %d title = %s, expected %s", i, c.Title, want[i])
		}
		if c.Buttons[0].Data[DataSubCategory] != want[i] {
			t.Errorf("card %d: unexpected button data %v", i, c.Buttons[0].Data)
		}
	}
}

func TestSubCategoriesUnknown(t *testing.T) {
	_, err := newTestBuilder().SubCategories("unknown")
	if !errors.Is(err, catalog.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestServiceDetailKnownAndFallback(t *testing.T) {
	b := newTestBuilder()

	known := b.ServiceDetail("텔레그램")
	if !strings.Contains(known[0].Text, "텔레그램 Bot API") {
		t.Errorf("unexpected detail text %q", known[0].Text)
	}

	fallback := b.ServiceDetail("인스타그램챗봇")
	if !strings.Contains(fallback[0].Text, "인스타그램챗봇") {
		t.Errorf("fallback does not mention key: %q", fallback[0].Text)
	}

	for _, p := range []Payload{known, fallback} {
		if len(p) != 2 || p[1].Kind != KindCard {
			t.Fatalf("expected text + card, got %+v", p)
		}
		var actions []string
		for _, btn := range p[1].Card.Buttons {
			actions = append(actions, btn.Data[DataAction])
		}
		if strings.Join(actions, ",") != "consultation,other_service,restart" {
			t.Errorf("unexpected button actions %v", actions)
		}
	}
}

func TestConsultationIsFixed(t *testing.T) {
	b := newTestBuilder()
	p := b.Consultation()
	text := p[0].Text
	for _, want := range []string{"02-1234-5678", "@zenith_service", "contact@zenith.com", "평일 09:00 ~ 18:00"} {
		if !strings.Contains(text, want) {
			t.Errorf("consultation text missing %q", want)
		}
	}

	btns := p[1].Card.Buttons
	if len(btns) != 4 {
		t.Fatalf("expected 4 buttons, got %d", len(btns))
	}
	urls := []string{"tel:0212345678", "https://pf.kakao.com/_zenith", "mailto:contact@zenith.com"}
	for i, u := range urls {
		if btns[i].Action != ExternalLink || btns[i].URL != u {
			t.Errorf("button %d = %+v, expected link %s", i, btns[i], u)
		}
	}
	if btns[3].Data[DataAction] != ActionRestart {
		t.Errorf("last button should restart, got %+v", btns[3])
	}

	again := b.Consultation()
	if again[0].Text != text {
		t.Error("consultation text changed between calls")
	}
}

func TestFixedPrompts(t *testing.T) {
	b := newTestBuilder()
	if got := b.Reselect().Texts(); len(got) != 1 || got[0] != "죄송합니다. 다시 서비스를 선택해주세요." {
		t.Errorf("unexpected reselect text %v", got)
	}
	if got := b.UseButtons().Texts(); got[0] != "버튼을 클릭해주세요." {
		t.Errorf("unexpected prompt %v", got)
	}
	if got := b.AgentNotified().Texts(); got[0] != "상담원이 곧 연락드리겠습니다. 감사합니다!" {
		t.Errorf("unexpected agent text %v", got)
	}
}
