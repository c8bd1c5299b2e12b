package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("1500.50")
	require.NoError(t, err)
	assert.Equal(t, "1500.50", m.String())

	_, err = ParseMoney("abc")
	assert.Error(t, err)

	_, err = ParseMoney("NaN")
	assert.Error(t, err)

	_, err = ParseMoney("Infinity")
	assert.Error(t, err)
}

func TestMoneyAdd(t *testing.T) {
	sum, err := MustMoney("400").Add(MustMoney("800.00"))
	require.NoError(t, err)
	assert.True(t, sum.Equal(NewMoney(1200)))
	assert.Equal(t, 1, sum.Cmp(NewMoney(1199)))
	assert.Equal(t, -1, NewMoney(-1).Cmp(NewMoney(0)))
}

func TestMoneyJSON(t *testing.T) {
	var course struct {
		Price *Money `json:"price"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"price": 1999.99}`), &course))
	require.NotNil(t, course.Price)
	assert.True(t, course.Price.Equal(MustMoney("1999.99")))

	require.NoError(t, json.Unmarshal([]byte(`{"price": "250"}`), &course))
	assert.True(t, course.Price.Equal(NewMoney(250)))

	require.NoError(t, json.Unmarshal([]byte(`{"price": null}`), &course))
	assert.Nil(t, course.Price)

	assert.Error(t, json.Unmarshal([]byte(`{"price": "ten"}`), &course))

	out, err := json.Marshal(map[string]Money{"salary": NewMoney(-1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"salary": -1}`, string(out))
}

func TestMoneyScan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want Money
	}{
		{name: "real", src: float64(800), want: NewMoney(800)},
		{name: "fraction", src: 12.5, want: MustMoney("12.5")},
		{name: "integer", src: int64(400), want: NewMoney(400)},
		{name: "numeric text", src: "900.00", want: NewMoney(900)},
		{name: "numeric bytes", src: []byte("100.10"), want: MustMoney("100.1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Money
			require.NoError(t, m.Scan(tt.src))
			assert.True(t, m.Equal(tt.want), "got %s, want %s", m, tt.want)
		})
	}

	var m Money
	assert.Error(t, m.Scan(true))
}

func TestMoneyValue(t *testing.T) {
	v, err := MustMoney("1200.50").Value()
	require.NoError(t, err)
	assert.Equal(t, "1200.50", v)
}
