package bridgegraph

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/chainsafe/bridgewatch/pkg/bridge"
)

// AddressDao maps to the 'bridge_addresses' table. An address is a node per chain.
type AddressDao struct {
	bun.BaseModel `bun:"table:bridge_addresses,alias:ba"`
	Address       string    `bun:"address,pk,type:varchar(128)"`
	Chain         string    `bun:"chain,pk,type:varchar(64)"`
	FirstSeen     time.Time `bun:"first_seen,notnull"`
	LastSeen      time.Time `bun:"last_seen,notnull"`
}

// LinkDao maps to the 'bridge_links' table.
type LinkDao struct {
	bun.BaseModel `bun:"table:bridge_links,alias:bl"`
	ID            string    `bun:"id,pk,type:varchar(64)"`
	FromAddress   string    `bun:"from_address,notnull,type:varchar(128)"`
	ToAddress     string    `bun:"to_address,notnull,type:varchar(128)"`
	ChainFrom     string    `bun:"chain_from,notnull,type:varchar(64)"`
	ChainTo       string    `bun:"chain_to,notnull,type:varchar(64)"`
	TxHash        string    `bun:"tx_hash,notnull,type:varchar(128)"`
	Bridge        string    `bun:"bridge,notnull,type:varchar(128)"`
	Value         string    `bun:"value,notnull,type:numeric,default:0"`
	TokenAddress  *string   `bun:"token_address,type:varchar(128)"`
	DetectedVia   string    `bun:"detected_via,notnull,type:varchar(32)"`
	Confidence    float64   `bun:"confidence,notnull"`
	ObservedAt    time.Time `bun:"observed_at,notnull"`
	LastSeen      time.Time `bun:"last_seen,notnull"`

	Inserted bool `bun:"inserted,scanonly"`
}

func toLinkDao(l *Link) *LinkDao {
	dao := &LinkDao{
		ID:          l.ID,
		FromAddress: l.FromAddress,
		ToAddress:   l.ToAddress,
		ChainFrom:   l.ChainFrom,
		ChainTo:     l.ChainTo,
		TxHash:      l.TxHash,
		Bridge:      l.Bridge,
		Value:       l.Value,
		DetectedVia: string(l.DetectedVia),
		Confidence:  l.Confidence,
		ObservedAt:  l.Timestamp,
		LastSeen:    l.LastSeen,
	}
	if l.TokenAddress != "" {
		token := l.TokenAddress
		dao.TokenAddress = &token
	}
	return dao
}

func toLink(dao *LinkDao) *Link {
	l := &Link{
		ID:          dao.ID,
		FromAddress: dao.FromAddress,
		ToAddress:   dao.ToAddress,
		ChainFrom:   dao.ChainFrom,
		ChainTo:     dao.ChainTo,
		TxHash:      dao.TxHash,
		Bridge:      dao.Bridge,
		Value:       amount(dao.Value),
		DetectedVia: bridge.DetectedVia(dao.DetectedVia),
		Confidence:  dao.Confidence,
		Timestamp:   dao.ObservedAt.UTC(),
		LastSeen:    dao.LastSeen.UTC(),
	}
	if dao.TokenAddress != nil {
		l.TokenAddress = *dao.TokenAddress
	}
	return l
}
