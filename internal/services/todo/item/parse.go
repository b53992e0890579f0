package item

import (
	"bytes"
	"encoding/json"
	"strings"

	apperrors "github.com/louisbranch/todo.space/internal/platform/errors"
)

// Field error message keys. They resolve through the validation catalog.
const (
	MsgBodyInvalid             = "validation.body_invalid"
	MsgTitleRequired           = "validation.title_required"
	MsgTitleType               = "validation.title_type"
	MsgDescriptionType         = "validation.description_type"
	MsgDescriptionNullableType = "validation.description_nullable_type"
	MsgCompletedType           = "validation.completed_type"
)

// FieldBody names the pseudo-field used when the body as a whole is invalid.
const FieldBody = "body"

// ParseCreate validates a create request body.
//
// title must be a string with at least one non-space character and is kept
// as sent; description is an optional string. Unknown fields are ignored.
func ParseCreate(raw []byte) (CreateInput, apperrors.FieldErrors) {
	fields, errs := decodeObject(raw)
	if errs != nil {
		return CreateInput{}, errs
	}
	errs = apperrors.FieldErrors{}

	var input CreateInput
	title, present, ok := stringField(fields, "title")
	switch {
	case !ok:
		errs.Add("title", MsgTitleType)
	case !present || strings.TrimSpace(title) == "":
		errs.Add("title", MsgTitleRequired)
	default:
		input.Title = title
	}

	if rawDescription, present := fields["description"]; present {
		var description string
		if err := json.Unmarshal(rawDescription, &description); err != nil || isNull(rawDescription) {
			errs.Add("description", MsgDescriptionType)
		} else {
			input.Description = &description
		}
	}

	if len(errs) > 0 {
		return CreateInput{}, errs
	}
	return input, nil
}

// ParseUpdate validates an update request body.
//
// Every field is optional. title, when present, must be a non-blank string;
// description may be a string or null (null clears it); completed must be a
// boolean. An empty object is a valid no-op patch.
func ParseUpdate(raw []byte) (Patch, apperrors.FieldErrors) {
	fields, errs := decodeObject(raw)
	if errs != nil {
		return Patch{}, errs
	}
	errs = apperrors.FieldErrors{}

	var patch Patch
	if _, present := fields["title"]; present {
		title, _, ok := stringField(fields, "title")
		switch {
		case !ok:
			errs.Add("title", MsgTitleType)
		case strings.TrimSpace(title) == "":
			errs.Add("title", MsgTitleRequired)
		default:
			patch.Title = &title
		}
	}

	if rawDescription, present := fields["description"]; present {
		if isNull(rawDescription) {
			patch.Description = OptionalText{Set: true}
		} else {
			var description string
			if err := json.Unmarshal(rawDescription, &description); err != nil {
				errs.Add("description", MsgDescriptionNullableType)
			} else {
				patch.Description = OptionalText{Set: true, Value: &description}
			}
		}
	}

	if rawCompleted, present := fields["completed"]; present {
		var completed bool
		if err := json.Unmarshal(rawCompleted, &completed); err != nil || isNull(rawCompleted) {
			errs.Add("completed", MsgCompletedType)
		} else {
			patch.Completed = &completed
		}
	}

	if len(errs) > 0 {
		return Patch{}, errs
	}
	return patch, nil
}

func decodeObject(raw []byte) (map[string]json.RawMessage, apperrors.FieldErrors) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, apperrors.FieldErrors{FieldBody: MsgBodyInvalid}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, apperrors.FieldErrors{FieldBody: MsgBodyInvalid}
	}
	return fields, nil
}

// stringField reads a string member. ok is false when the member is present
// but is not a JSON string.
func stringField(fields map[string]json.RawMessage, name string) (value string, present bool, ok bool) {
	rawValue, present := fields[name]
	if !present {
		return "", false, true
	}
	if isNull(rawValue) {
		return "", true, false
	}
	if err := json.Unmarshal(rawValue, &value); err != nil {
		return "", true, false
	}
	return value, true, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
