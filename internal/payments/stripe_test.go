package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceForCurrencySwitch(t *testing.T) {
	prices := PriceTable{USD: "price_usd", EUR: "price_eur", GBP: "price_gbp"}

	assert.Equal(t, "price_usd", prices.PriceFor("usd"))
	assert.Equal(t, "price_eur", prices.PriceFor("eur"))
	assert.Equal(t, "price_gbp", prices.PriceFor("gbp"))
	assert.Equal(t, "price_eur", prices.PriceFor("EUR"))
	assert.Equal(t, "price_usd", prices.PriceFor(""))
	assert.Equal(t, "price_usd", prices.PriceFor("jpy"))
}
