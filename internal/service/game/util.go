package game

import (
	"encoding/json"
	"math/rand"

	"github.com/google/uuid"
)

func GenID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("Failed to generate UUID: " + err.Error())
	}

	return id.String()
}

// ShortID 取 UUID 尾部 8 位作为短标识
func ShortID() string {
	id := GenID()
	return id[len(id)-8:]
}

const colorLetters = "0123456789ABCDEF"

// RandHexColor 生成 #RRGGBB 形式的随机颜色
func RandHexColor() string {
	buf := make([]byte, 7)
	buf[0] = '#'

	for i := 1; i < len(buf); i++ {
		buf[i] = colorLetters[rand.Intn(len(colorLetters))]
	}

	return string(buf)
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic("Failed to marshal: " + err.Error())
	}

	return data
}
