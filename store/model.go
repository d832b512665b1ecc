package store

import (
	"github.com/egaotan/solana-router/calculator"
)

type OpportunityStep struct {
	Program       string  `gorm:"type:varchar(48);not null"`
	Pool          string  `gorm:"type:varchar(48);not null"`
	TokenIn       string  `gorm:"type:varchar(48);not null"`
	AmountIn      uint64  `gorm:"type:bigint(20);not null"`
	TokenOut      string  `gorm:"type:varchar(48);not null"`
	AmountOut     uint64  `gorm:"type:bigint(20);not null"`
	Fee           uint64  `gorm:"type:bigint(20);not null"`
	PriceImpact   float64 `gorm:"not null"`
	Slot          uint64  `gorm:"type:bigint(20);not null"`
	OpportunityId uint64  `gorm:"type:bigint(20);not null"`
}

type Opportunity struct {
	Id               uint64             `gorm:"primaryKey;type:bigint(20);not null"`
	CycleKey         string             `gorm:"type:varchar(255);index;not null"`
	Calculator       string             `gorm:"type:varchar(16);not null"`
	StartToken       string             `gorm:"type:varchar(48);not null"`
	CapitalRequired  uint64             `gorm:"type:bigint(20);not null"`
	ProfitBps        float64            `gorm:"not null"`
	NetProfitBps     float64            `gorm:"not null"`
	GasEstimate      uint64             `gorm:"type:bigint(20);not null"`
	NetProfit        int64              `gorm:"type:bigint(20);not null"`
	Confidence       float64            `gorm:"not null"`
	FoundAt          uint64             `gorm:"type:bigint(20);not null"`
	OpportunitySteps []*OpportunityStep `gorm:"foreignKey:OpportunityId;references:Id"`
}

type CrossPoolOpportunity struct {
	Id              uint64  `gorm:"primaryKey;type:bigint(20);not null"`
	BuyPool         string  `gorm:"type:varchar(48);not null"`
	SellPool        string  `gorm:"type:varchar(48);not null"`
	Base            string  `gorm:"type:varchar(48);not null"`
	Quote           string  `gorm:"type:varchar(48);not null"`
	BuyPrice        float64 `gorm:"not null"`
	SellPrice       float64 `gorm:"not null"`
	SpreadBps       float64 `gorm:"not null"`
	NetSpreadBps    float64 `gorm:"not null"`
	Volume          float64 `gorm:"not null"`
	EstimatedProfit float64 `gorm:"not null"`
	FoundAt         uint64  `gorm:"type:bigint(20);not null"`
}

// NewOpportunity flattens a detected cycle into its stored row.
func NewOpportunity(op *calculator.Opportunity) *Opportunity {
	row := &Opportunity{
		Id:               op.Id,
		CycleKey:         op.Key,
		Calculator:       op.Calculator,
		CapitalRequired:  op.CapitalRequired,
		ProfitBps:        op.ProfitBps,
		NetProfitBps:     op.NetProfitBps,
		GasEstimate:      op.GasEstimate,
		NetProfit:        op.NetProfit,
		Confidence:       op.Confidence,
		FoundAt:          uint64(op.FoundAt.UnixMicro()),
		OpportunitySteps: make([]*OpportunityStep, 0),
	}
	if op.Route == nil {
		return row
	}
	row.StartToken = op.StartAsset().String()
	for _, hop := range op.Route.Hops {
		row.OpportunitySteps = append(row.OpportunitySteps, &OpportunityStep{
			Program:       hop.Pool.Program.String(),
			Pool:          hop.Pool.Id.String(),
			TokenIn:       hop.TokenIn.String(),
			AmountIn:      hop.AmountIn,
			TokenOut:      hop.TokenOut.String(),
			AmountOut:     hop.AmountOut,
			Fee:           hop.Fee,
			PriceImpact:   hop.PriceImpact,
			Slot:          hop.Pool.Slot,
			OpportunityId: op.Id,
		})
	}
	return row
}

func NewCrossPoolOpportunity(op *calculator.CrossPoolOpportunity) *CrossPoolOpportunity {
	return &CrossPoolOpportunity{
		Id:              op.Id,
		BuyPool:         op.BuyPool.Id.String(),
		SellPool:        op.SellPool.Id.String(),
		Base:            op.Base.String(),
		Quote:           op.Quote.String(),
		BuyPrice:        op.BuyPrice,
		SellPrice:       op.SellPrice,
		SpreadBps:       op.SpreadBps,
		NetSpreadBps:    op.NetSpreadBps,
		Volume:          op.Volume,
		EstimatedProfit: op.EstimatedProfit,
		FoundAt:         uint64(op.FoundAt.UnixMicro()),
	}
}
