package tax_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vatcart/internal/domain"
	"vatcart/internal/tax"
)

func service(c domain.TaxCategory) domain.CartItem {
	return domain.CartItem{Label: "consulting", Quantity: 1, Price: 100, TaxCategory: c, IsService: true}
}

func goods(c domain.TaxCategory) domain.CartItem {
	return domain.CartItem{Label: "laptop", Quantity: 1, Price: 100, TaxCategory: c}
}

func TestResolver_DecisionTree(t *testing.T) {
	tests := []struct {
		name    string
		item    domain.CartItem
		ctx     domain.CartContext
		rate    float64
		mention string
		rule    string
	}{
		// services, B2B
		{"services_b2b_fr", service(domain.TaxNormal), domain.CartContext{IsBusinessToBusiness: true, Country: "FR"},
			0.20, "", "services.b2b.metropolitan"},
		{"services_b2b_mc", service(domain.TaxReduced), domain.CartContext{IsBusinessToBusiness: true, Country: "MC"},
			0.055, "", "services.b2b.metropolitan"},
		{"services_b2b_gp", service(domain.TaxNormal), domain.CartContext{IsBusinessToBusiness: true, Country: "GP"},
			0.085, "", "services.b2b.overseas_taxed"},
		{"services_b2b_re_special", service(domain.TaxSpecial), domain.CartContext{IsBusinessToBusiness: true, Country: "RE"},
			0.0175, "", "services.b2b.overseas_taxed"},
		{"services_b2b_gf", service(domain.TaxNormal), domain.CartContext{IsBusinessToBusiness: true, Country: "GF"},
			0, tax.MentionServicesOverseas, "services.b2b.overseas_untaxed"},
		{"services_b2b_yt", service(domain.TaxNormal), domain.CartContext{IsBusinessToBusiness: true, Country: "YT"},
			0, tax.MentionServicesOverseas, "services.b2b.overseas_untaxed"},
		{"services_b2b_de_intra", service(domain.TaxNormal), domain.CartContext{IsBusinessToBusiness: true, Country: "DE", IsIntraCommunity: true},
			0, tax.MentionServicesReverse, "services.b2b.eu_intra"},
		{"services_b2b_de_not_intra", service(domain.TaxNormal), domain.CartContext{IsBusinessToBusiness: true, Country: "DE"},
			0.20, "", "services.b2b.eu_domestic"},
		{"services_b2b_us", service(domain.TaxNormal), domain.CartContext{IsBusinessToBusiness: true, Country: "US"},
			0, tax.MentionServicesReverse, "services.b2b.world"},
		{"services_b2b_us_intra_flag_ignored", service(domain.TaxNormal), domain.CartContext{IsBusinessToBusiness: true, Country: "US", IsIntraCommunity: true},
			0, tax.MentionServicesReverse, "services.b2b.world"},

		// services, B2C
		{"services_b2c_us", service(domain.TaxNormal), domain.CartContext{Country: "US"},
			0.20, "", "services.b2c.any"},
		{"services_b2c_gp", service(domain.TaxIntermediate), domain.CartContext{Country: "GP"},
			0.10, "", "services.b2c.any"},
		{"services_b2c_de_intra", service(domain.TaxNormal), domain.CartContext{Country: "DE", IsIntraCommunity: true},
			0.20, "", "services.b2c.any"},

		// goods, B2B
		{"goods_b2b_fr", goods(domain.TaxNormal), domain.CartContext{IsBusinessToBusiness: true, Country: "FR"},
			0.20, "", "goods.b2b.metropolitan"},
		{"goods_b2b_gp", goods(domain.TaxNormal), domain.CartContext{IsBusinessToBusiness: true, Country: "GP"},
			0, tax.MentionGoodsOverseasB2B, "goods.b2b.overseas"},
		{"goods_b2b_yt", goods(domain.TaxNormal), domain.CartContext{IsBusinessToBusiness: true, Country: "YT"},
			0, tax.MentionGoodsOverseasB2B, "goods.b2b.overseas"},
		{"goods_b2b_de_intra", goods(domain.TaxNormal), domain.CartContext{IsBusinessToBusiness: true, Country: "DE", IsIntraCommunity: true},
			0, tax.MentionGoodsIntraEU, "goods.b2b.eu_intra"},
		{"goods_b2b_it_not_intra", goods(domain.TaxIntermediate), domain.CartContext{IsBusinessToBusiness: true, Country: "IT"},
			0.10, "", "goods.b2b.eu_domestic"},
		{"goods_b2b_ch", goods(domain.TaxNormal), domain.CartContext{IsBusinessToBusiness: true, Country: "CH"},
			0, tax.MentionGoodsExportB2B, "goods.b2b.world"},

		// goods, B2C
		{"goods_b2c_fr", goods(domain.TaxSpecial), domain.CartContext{Country: "FR"},
			0.021, "", "goods.b2c.metropolitan"},
		{"goods_b2c_mq", goods(domain.TaxNormal), domain.CartContext{Country: "MQ"},
			0, tax.MentionGoodsOverseasB2C, "goods.b2c.overseas"},
		{"goods_b2c_es", goods(domain.TaxNormal), domain.CartContext{Country: "ES"},
			0.20, "", "goods.b2c.eu"},
		{"goods_b2c_es_intra", goods(domain.TaxNormal), domain.CartContext{Country: "ES", IsIntraCommunity: true},
			0.20, "", "goods.b2c.eu"},
		{"goods_b2c_us", goods(domain.TaxReduced), domain.CartContext{Country: "US"},
			0, tax.MentionGoodsExportB2C, "goods.b2c.world"},
	}

	r := tax.NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve(tt.item, tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.rate, res.Rate)
			assert.Equal(t, tt.mention, res.Mention)
			assert.Equal(t, tt.rule, res.RuleKey)
		})
	}
}

func TestResolver_NoRateHasNoMention(t *testing.T) {
	res, err := tax.Default().Resolve(goods(domain.TaxNoRate), domain.CartContext{Country: "FR"})
	require.NoError(t, err)
	assert.Zero(t, res.Rate)
	assert.Empty(t, res.Mention)
	assert.Equal(t, "metropolitan", res.Table)
}

func TestResolver_NoRateKeepsRuleMention(t *testing.T) {
	res, err := tax.Default().Resolve(goods(domain.TaxNoRate), domain.CartContext{Country: "US"})
	require.NoError(t, err)
	assert.Zero(t, res.Rate)
	assert.Equal(t, tax.MentionGoodsExportB2C, res.Mention)
}

func TestResolver_NegativeRateIsRejected(t *testing.T) {
	broken := tax.DefaultTables()
	broken.Metropolitan = tax.NewRateTable("broken", map[domain.TaxCategory]float64{
		domain.TaxNormal: -0.2,
	})
	r := tax.NewResolver(tax.WithTables(broken))

	_, err := r.Resolve(goods(domain.TaxNormal), domain.CartContext{Country: "FR"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTaxRate))
	assert.Contains(t, err.Error(), "laptop")

	// Other categories of the same table are unaffected.
	res, err := r.Resolve(goods(domain.TaxNoRate), domain.CartContext{Country: "FR"})
	require.NoError(t, err)
	assert.Zero(t, res.Rate)
}
