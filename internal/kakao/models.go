package kakao

// --- Incoming skill payload ---
// Reference: https://kakaobusiness.gitbook.io/main/tool/chatbot/skill_guide/answer_json_format

type SkillRequest struct {
	UserRequest UserRequest `json:"userRequest"`
	Action      SkillAction `json:"action"`
}

type UserRequest struct {
	Timezone  string `json:"timezone,omitempty"`
	Utterance string `json:"utterance"`
	Lang      string `json:"lang,omitempty"`
	User      User   `json:"user"`
}

type User struct {
	ID         string         `json:"id"`
	Type       string         `json:"type,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// SkillAction carries the extra of the button the user pressed, if any.
type SkillAction struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
	ClientExtra map[string]any `json:"clientExtra,omitempty"`
}

// --- Outgoing skill response ---

const skillVersion = "2.0"

type SkillResponse struct {
	Version  string        `json:"version"`
	Template SkillTemplate `json:"template"`
}

type SkillTemplate struct {
	Outputs []Output `json:"outputs"`
}

// Output holds exactly one component.
type Output struct {
	SimpleText *SimpleText `json:"simpleText,omitempty"`
	Carousel   *Carousel   `json:"carousel,omitempty"`
	BasicCard  *BasicCard  `json:"basicCard,omitempty"`
}

type SimpleText struct {
	Text string `json:"text"`
}

type Carousel struct {
	Type  string      `json:"type"`
	Items []BasicCard `json:"items"`
}

type BasicCard struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Thumbnail   *Thumbnail `json:"thumbnail,omitempty"`
	Buttons     []Button   `json:"buttons,omitempty"`
}

type Thumbnail struct {
	ImageURL string `json:"imageUrl"`
}

type Button struct {
	Action      string            `json:"action"`
	Label       string            `json:"label"`
	MessageText string            `json:"messageText,omitempty"`
	WebLinkURL  string            `json:"webLinkUrl,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
