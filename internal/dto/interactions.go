package dto

import (
	"github.com/wb-go/wbf/ginext"
)

const (
	InteractionCommand     = "command"
	InteractionModalSubmit = "modal_submit"

	ReplyMessage = "message"
	ReplyModal   = "modal"

	FieldIncorrect     = "FIELD_INCORRECT"
	NotPermitted       = "NOT_PERMITTED"
	UnknownCommand     = "UNKNOWN_COMMAND"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Something went wrong. Please try again later."
)

// Caller identifies the guild member that triggered the interaction.
type Caller struct {
	UserID int64 `json:"user_id" validate:"required"`
	Admin  bool  `json:"admin"`
}

// Attachment carries an uploaded file inline. The dispatcher only ever
// sees CSV files small enough to travel in the interaction payload.
type Attachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Interaction is one slash-command invocation or modal submission as
// delivered by the chat platform.
type Interaction struct {
	Type       string            `json:"type" validate:"required"`
	Command    string            `json:"command" validate:"required"`
	Caller     Caller            `json:"caller"`
	Options    map[string]string `json:"options,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	Attachment *Attachment       `json:"attachment,omitempty"`
}

// ModalField describes one input of a modal the platform should render.
type ModalField struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
}

// Reply is the single terminal response of a workflow. Everything this
// bot says is ephemeral.
type Reply struct {
	Type      string       `json:"type"`
	Content   string       `json:"content,omitempty"`
	Ephemeral bool         `json:"ephemeral"`
	Title     string       `json:"title,omitempty"`
	Fields    []ModalField `json:"fields,omitempty"`
}

// RegisterCodeRequest is checked before the database is consulted so a
// malformed code never costs a round-trip.
type RegisterCodeRequest struct {
	Code string `validate:"refcode"`
}

// RegisterFormRequest covers the remaining intake-form fields; Single
// may be empty.
type RegisterFormRequest struct {
	TshirtSize string `validate:"tshirt"`
	Single     string `validate:"yn"`
}

const (
	RoleGrant       = "grant"
	RoleRevoke      = "revoke"
	RoleEnsureGrant = "ensure_grant"
)

// RoleOperateMessage is queued after a successful commit and applied by
// the role worker. EnsureGrant creates the role first when it is absent.
type RoleOperateMessage struct {
	Op       string `json:"op"`
	UserID   int64  `json:"user_id"`
	RoleName string `json:"role_name"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func Ephemeral(content string) *Reply {
	return &Reply{Type: ReplyMessage, Content: content, Ephemeral: true}
}

func Modal(title string, fields []ModalField) *Reply {
	return &Reply{Type: ReplyModal, Title: title, Ephemeral: true, Fields: fields}
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, Response{
		Status: "error",
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: InternalError,
		},
	})
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}
