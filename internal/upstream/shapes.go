package upstream

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Формы ответов основного API исторически неоднородны: один и тот же список
// может прийти голым массивом, в обертке data, exchanges или results.
// Матчеры перебираются по порядку; нераспознанная форма дает пустой
// результат, а не ошибку — списки в UI должны переживать эволюцию бэкенда.

// ExchangeListFields — поля-обертки списка обменов в порядке приоритета
var ExchangeListFields = []string{"data", "exchanges", "results"}

// SkillListFields — поля-обертки списка навыков
var SkillListFields = []string{"data", "skills", "results"}

// ExtractList нормализует ответ-список: сначала голый массив, затем
// перечисленные поля-обертки. Возвращает элементы и признак того,
// что форма распознана.
func ExtractList(body []byte, fields ...string) ([]json.RawMessage, bool) {
	if len(body) == 0 {
		return nil, false
	}

	parsed := gjson.ParseBytes(body)
	if parsed.IsArray() {
		return rawElements(parsed), true
	}
	if !parsed.IsObject() {
		return nil, false
	}

	for _, field := range fields {
		if candidate := parsed.Get(field); candidate.IsArray() {
			return rawElements(candidate), true
		}
	}
	return nil, false
}

// ExtractObject нормализует ответ-объект: обертка {data: {...}} либо голый объект
func ExtractObject(body []byte) (json.RawMessage, bool) {
	if len(body) == 0 {
		return nil, false
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, false
	}

	if data := parsed.Get("data"); data.IsObject() {
		return json.RawMessage(data.Raw), true
	}
	return json.RawMessage(parsed.Raw), true
}

// ExtractStatusCheck нормализует ответ эндпоинта проверки статуса обмена:
// {data:{requests:[...]}}, {requests:[...]} либо легаси {exchange:{...}}.
func ExtractStatusCheck(body []byte) ([]json.RawMessage, bool) {
	if len(body) == 0 {
		return nil, false
	}

	parsed := gjson.ParseBytes(body)
	if parsed.IsArray() {
		return rawElements(parsed), true
	}
	if !parsed.IsObject() {
		return nil, false
	}

	for _, path := range []string{"data.requests", "requests"} {
		if candidate := parsed.Get(path); candidate.IsArray() {
			return rawElements(candidate), true
		}
	}

	if legacy := parsed.Get("exchange"); legacy.IsObject() {
		return []json.RawMessage{json.RawMessage(legacy.Raw)}, true
	}
	return nil, false
}

func rawElements(arr gjson.Result) []json.RawMessage {
	items := arr.Array()
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		out = append(out, json.RawMessage(item.Raw))
	}
	return out
}
