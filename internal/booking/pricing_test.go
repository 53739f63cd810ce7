package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

func villaService() *model.Service {
	return &model.Service{
		ID:       1,
		Name:     "Garden Villa",
		Category: model.CategoryRoom,
		Price:    5000,
		IsActive: true,
		Options: []model.ServiceOption{
			{
				ID: 11, ServiceID: 1, Code: "DAY", Name: "Day (8am-5pm)",
				DurationHours: 9, BasePrice: 8000, IncludedPax: 25,
				ExcessPaxFee: 120, IsActive: true,
			},
			{
				ID: 12, ServiceID: 1, Code: "NIGHT", Name: "Overnight",
				DurationHours: 22, BasePrice: 12000, IncludedPax: 0,
				ExcessPaxFee: 150, IsActive: true,
			},
		},
		Extras: []model.ServiceExtra{
			{
				ID: 21, ServiceID: 1, Code: "CORKAGE", Name: "Corkage",
				Pricing: []model.ExtraPrice{{Key: "flat", Price: 500}},
			},
			{
				ID: 22, ServiceID: 1, Code: "APPLIANCE_FEE", Name: "Appliance fee",
				Pricing: []model.ExtraPrice{
					{Key: "12h", Price: 300},
					{Key: "22h", Price: 450},
				},
			},
		},
	}
}

func TestComputePricingExcessPax(t *testing.T) {
	svc := villaService()
	opt := svc.Option(11)
	require.NotNil(t, opt)

	t.Run("within included headcount", func(t *testing.T) {
		p, lines := ComputePricing(svc, opt, 25, nil)
		assert.Equal(t, int64(8000), p.BasePrice)
		assert.Equal(t, int64(0), p.ExcessPaxFee)
		assert.Equal(t, int64(8000), p.Total)
		assert.Empty(t, lines)
	})

	t.Run("five guests over", func(t *testing.T) {
		p, _ := ComputePricing(svc, opt, 30, nil)
		assert.Equal(t, int64(8000), p.BasePrice)
		assert.Equal(t, int64(600), p.ExcessPaxFee)
		assert.Equal(t, int64(8600), p.Total)
	})

	t.Run("zero included pax falls back to default", func(t *testing.T) {
		night := svc.Option(12)
		require.NotNil(t, night)
		p, _ := ComputePricing(svc, night, DefaultIncludedPax+2, nil)
		assert.Equal(t, int64(12000), p.BasePrice)
		assert.Equal(t, int64(300), p.ExcessPaxFee)
	})
}

func TestComputePricingNoOption(t *testing.T) {
	svc := villaService()
	p, lines := ComputePricing(svc, nil, 40, nil)
	assert.Equal(t, int64(5000), p.BasePrice)
	assert.Equal(t, int64(0), p.ExcessPaxFee, "flat-priced booking has no excess-pax fee")
	assert.Equal(t, int64(5000), p.Total)
	assert.Empty(t, lines)
}

func TestComputePricingExtras(t *testing.T) {
	svc := villaService()
	opt := svc.Option(11)

	t.Run("tier lookup and quantities", func(t *testing.T) {
		p, lines := ComputePricing(svc, opt, 10, []ExtraSelection{
			{ExtraCode: "CORKAGE", PricingKey: "flat", Quantity: 2},
			{ExtraCode: "APPLIANCE_FEE", PricingKey: "22h"},
		})
		require.Len(t, lines, 2)
		assert.Equal(t, int64(500), lines[0].UnitPrice)
		assert.Equal(t, int64(2), lines[0].Quantity)
		assert.Equal(t, int64(1000), lines[0].LineTotal)
		assert.Equal(t, int64(1), lines[1].Quantity, "zero quantity defaults to one")
		assert.Equal(t, int64(450), lines[1].LineTotal)
		assert.Equal(t, int64(1450), p.ExtrasTotal)
		assert.Equal(t, int64(9450), p.Total)
	})

	t.Run("unknown code and unknown tier are skipped", func(t *testing.T) {
		p, lines := ComputePricing(svc, opt, 10, []ExtraSelection{
			{ExtraCode: "BOUNCY_CASTLE", PricingKey: "flat", Quantity: 1},
			{ExtraCode: "APPLIANCE_FEE", PricingKey: "48h", Quantity: 1},
			{ExtraCode: "CORKAGE", PricingKey: "flat", Quantity: 1},
		})
		require.Len(t, lines, 1)
		assert.Equal(t, "CORKAGE", lines[0].ExtraCode)
		assert.Equal(t, int64(500), p.ExtrasTotal)
	})

	t.Run("negative quantity treated as one", func(t *testing.T) {
		_, lines := ComputePricing(svc, opt, 10, []ExtraSelection{
			{ExtraCode: "CORKAGE", PricingKey: "flat", Quantity: -3},
		})
		require.Len(t, lines, 1)
		assert.Equal(t, int64(1), lines[0].Quantity)
	})
}

func TestComputePricingDeterministic(t *testing.T) {
	svc := villaService()
	opt := svc.Option(11)
	extras := []ExtraSelection{
		{ExtraCode: "CORKAGE", PricingKey: "flat", Quantity: 2},
		{ExtraCode: "APPLIANCE_FEE", PricingKey: "12h", Quantity: 1},
	}
	first, firstLines := ComputePricing(svc, opt, 30, extras)
	for i := 0; i < 50; i++ {
		p, lines := ComputePricing(svc, opt, 30, extras)
		assert.Equal(t, first, p)
		assert.Equal(t, firstLines, lines)
	}
	assert.Equal(t, first.Total, first.BasePrice+first.ExcessPaxFee+first.ExtrasTotal)
}
