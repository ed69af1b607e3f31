package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected", "field" or "enum").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "object_expected":
			return "オブジェクトが必要です"
		case "array_expected":
			return "配列が必要です"
		case "invalid_type":
			return detail("型が不正です", "期待される型", data["expected"])
		case "unknown_key":
			return detail("未知のキーです", "メッセージ", data["message"])
		case "invalid_enum":
			return detail("列挙値が不正です", "列挙型", data["enum"])
		case "max_depth":
			return detail("ネストが深すぎます", "上限", data["max"])
		case "duplicate_key":
			return "キーが重複しています"
		case "trailing_data":
			return "値の後に余分なデータがあります"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "object_expected":
			return "object expected"
		case "array_expected":
			return "array expected"
		case "invalid_type":
			return detail("invalid type", "expected", data["expected"])
		case "unknown_key":
			return detail("unknown key", "message", data["message"])
		case "invalid_enum":
			return detail("invalid enum value", "enum", data["enum"])
		case "max_depth":
			return detail("nesting too deep", "max", data["max"])
		case "duplicate_key":
			return "duplicate key"
		case "trailing_data":
			return "trailing data after value"
		case "parse_error":
			return "parse error"
		}
	}
	return code
}

// detail appends "(label: value)" when value is known.
func detail(msg, label, value string) string {
	if value == "" {
		return msg
	}
	b := &strings.Builder{}
	b.WriteString(msg)
	b.WriteString(" (")
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString(")")
	return b.String()
}

// current holds the active Translator. Swapping it is safe while other
// goroutines render messages.
var current atomic.Pointer[Translator]

func init() { SetTranslator(nil) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&tr)
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return (*current.Load()).Message(code, data) }
