package tax

import "vatcart/internal/domain"

// Legal mentions printed on invoices when an exemption applies.
const (
	MentionServicesOverseas = "Exemption, services art. 294, self-assessment by buyer."
	MentionServicesReverse  = "Exemption, services art. 283-2, self-assessment by buyer."
	MentionGoodsOverseasB2B = "Exemption, goods art. 294, self-assessment by buyer."
	MentionGoodsIntraEU     = "Exemption, goods art. 262-2, self-assessment by buyer."
	MentionGoodsExportB2B   = "Exemption, goods art. 262-1 (B2B export)."
	MentionGoodsOverseasB2C = "Exemption, goods art. 294."
	MentionGoodsExportB2C   = "Exemption, goods art. 262-1 (B2C export)."
	MentionNotApplicable    = "VAT not applicable, self-assessment by buyer."
)

// Supply distinguishes services from goods.
type Supply int

const (
	SupplyServices Supply = iota
	SupplyGoods
)

// Buyer distinguishes business from consumer buyers.
type Buyer int

const (
	BuyerBusiness Buyer = iota
	BuyerConsumer
)

// IntraMatch constrains a rule on the intra-community flag.
type IntraMatch int

const (
	IntraAny IntraMatch = iota
	IntraOnly
	IntraExcluded
)

// Discriminators is the tuple a rule is matched against.
type Discriminators struct {
	Supply         Supply
	Buyer          Buyer
	Zone           Zone
	IntraCommunity bool
}

// Classify extracts the discriminators of a line sold under ctx.
func Classify(item domain.CartItem, ctx domain.CartContext) Discriminators {
	d := Discriminators{
		Supply:         SupplyGoods,
		Buyer:          BuyerConsumer,
		Zone:           ClassifyCountry(ctx.Country),
		IntraCommunity: ctx.IsIntraCommunity,
	}
	if item.IsService {
		d.Supply = SupplyServices
	}
	if ctx.IsBusinessToBusiness {
		d.Buyer = BuyerBusiness
	}
	return d
}

// Rule is one row of the decision table.
type Rule struct {
	Key     string
	Supply  Supply
	Buyer   Buyer
	Zones   Zone
	Intra   IntraMatch
	Table   TableKind
	Mention string
}

// Matches reports whether d falls under the rule.
func (r Rule) Matches(d Discriminators) bool {
	if r.Supply != d.Supply || r.Buyer != d.Buyer {
		return false
	}
	if !r.Zones.Has(d.Zone) {
		return false
	}
	switch r.Intra {
	case IntraOnly:
		return d.IntraCommunity
	case IntraExcluded:
		return !d.IntraCommunity
	default:
		return true
	}
}

// fallbackRule is returned when no row matches. The table below covers every
// discriminator tuple, so reaching it means the table was edited incorrectly.
var fallbackRule = Rule{
	Key:     "fallback.not_applicable",
	Zones:   ZoneAny,
	Table:   TableExempt,
	Mention: MentionNotApplicable,
}

// rules is evaluated top to bottom; the first match wins.
var rules = []Rule{
	// Services sold to businesses.
	{Key: "services.b2b.metropolitan", Supply: SupplyServices, Buyer: BuyerBusiness,
		Zones: ZoneMetropolitan, Table: TableMetropolitan},
	{Key: "services.b2b.overseas_taxed", Supply: SupplyServices, Buyer: BuyerBusiness,
		Zones: ZoneOverseasTaxed, Table: TableOverseas},
	{Key: "services.b2b.overseas_untaxed", Supply: SupplyServices, Buyer: BuyerBusiness,
		Zones: ZoneOverseasUntaxed, Table: TableExempt, Mention: MentionServicesOverseas},
	{Key: "services.b2b.eu_intra", Supply: SupplyServices, Buyer: BuyerBusiness,
		Zones: ZoneEU, Intra: IntraOnly, Table: TableExempt, Mention: MentionServicesReverse},
	{Key: "services.b2b.eu_domestic", Supply: SupplyServices, Buyer: BuyerBusiness,
		Zones: ZoneEU, Intra: IntraExcluded, Table: TableMetropolitan},
	{Key: "services.b2b.world", Supply: SupplyServices, Buyer: BuyerBusiness,
		Zones: ZoneWorld, Table: TableExempt, Mention: MentionServicesReverse},

	// Services sold to consumers are taxed under domestic rules everywhere.
	{Key: "services.b2c.any", Supply: SupplyServices, Buyer: BuyerConsumer,
		Zones: ZoneAny, Table: TableMetropolitan},

	// Goods sold to businesses.
	{Key: "goods.b2b.metropolitan", Supply: SupplyGoods, Buyer: BuyerBusiness,
		Zones: ZoneMetropolitan, Table: TableMetropolitan},
	{Key: "goods.b2b.overseas", Supply: SupplyGoods, Buyer: BuyerBusiness,
		Zones: ZoneOverseas, Table: TableExempt, Mention: MentionGoodsOverseasB2B},
	{Key: "goods.b2b.eu_intra", Supply: SupplyGoods, Buyer: BuyerBusiness,
		Zones: ZoneEU, Intra: IntraOnly, Table: TableExempt, Mention: MentionGoodsIntraEU},
	{Key: "goods.b2b.eu_domestic", Supply: SupplyGoods, Buyer: BuyerBusiness,
		Zones: ZoneEU, Intra: IntraExcluded, Table: TableMetropolitan},
	{Key: "goods.b2b.world", Supply: SupplyGoods, Buyer: BuyerBusiness,
		Zones: ZoneWorld, Table: TableExempt, Mention: MentionGoodsExportB2B},

	// Goods sold to consumers.
	{Key: "goods.b2c.metropolitan", Supply: SupplyGoods, Buyer: BuyerConsumer,
		Zones: ZoneMetropolitan, Table: TableMetropolitan},
	{Key: "goods.b2c.overseas", Supply: SupplyGoods, Buyer: BuyerConsumer,
		Zones: ZoneOverseas, Table: TableExempt, Mention: MentionGoodsOverseasB2C},
	{Key: "goods.b2c.eu", Supply: SupplyGoods, Buyer: BuyerConsumer,
		Zones: ZoneEU, Table: TableMetropolitan},
	{Key: "goods.b2c.world", Supply: SupplyGoods, Buyer: BuyerConsumer,
		Zones: ZoneWorld, Table: TableExempt, Mention: MentionGoodsExportB2C},
}

// Rules returns a copy of the decision table in evaluation order.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// FallbackRule returns the row used when nothing else matches.
func FallbackRule() Rule { return fallbackRule }

// Match returns the first rule of table matching d, or the fallback rule.
func Match(table []Rule, d Discriminators) Rule {
	for i := range table {
		if table[i].Matches(d) {
			return table[i]
		}
	}
	return fallbackRule
}
