package i18n

// Translator retrieves localized messages for the engine's message codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "not_a_string":
			return "文字列ではありません"
		case "not_a_boolean":
			return "真偽値ではありません"
		case "not_an_integer":
			return "整数ではありません"
		case "not_a_float":
			return "数値ではありません"
		case "not_a_mapping":
			return "マッピングではありません"
		case "not_a_list":
			return "リストではありません"
		case "wrong_arity":
			return "要素数が一致しません"
		case "not_an_enum_member":
			return "列挙型のメンバではありません"
		case "invalid_format":
			return "書式が不正です"
		case "missing_fields":
			return "必須フィールドが不足しています"
		case "unexpected_keys":
			return "未知のキーがあります"
		case "invalid_input":
			return "入力の形が不正です"
		case "unexpected_json":
			return "JSONのトップレベルの形が想定と異なります"
		case "duplicate_key":
			return "キーが重複しています"
		}
	default: // "en"
		switch code {
		case "not_a_string":
			return "value is not a string"
		case "not_a_boolean":
			return "value is not a boolean"
		case "not_an_integer":
			return "value is not an integer"
		case "not_a_float":
			return "value is not a float"
		case "not_a_mapping":
			return "value is not a mapping"
		case "not_a_list":
			return "value is not a list"
		case "wrong_arity":
			return "wrong number of elements"
		case "not_an_enum_member":
			return "value is not a member of the enumeration"
		case "invalid_format":
			return "value has an invalid format"
		case "missing_fields":
			return "required fields are missing"
		case "unexpected_keys":
			return "unexpected keys present"
		case "invalid_input":
			return "input has the wrong shape"
		case "unexpected_json":
			return "top-level JSON has an unexpected shape"
		case "duplicate_key":
			return "duplicate object key"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
