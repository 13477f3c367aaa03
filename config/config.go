package config

import (
	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/store/db"
)

// Config farm config
type Config struct {
	App    App       `json:"app"`
	DB     db.Config `json:"db"`
	Dapp   Dapp      `json:"dapp"`
	Oracle Oracle    `json:"oracle"`
}

// App app config
type App struct {
	// RewardAssetID the asset claims are paid in
	RewardAssetID string `json:"reward_asset_id" valid:"uuid,required"`
	// Rate seconds for a position to accrue 100% of its staked value
	Rate     uint64   `json:"rate"`
	Admins   []string `json:"admins"`
	Minters  []string `json:"minters"`
	Location string   `json:"location"`
}

// Dapp mixin dapp config
type Dapp struct {
	mixin.Keystore
	ClientSecret string `json:"client_secret"`
	Pin          string `json:"pin"`
}

// Oracle price feed config
type Oracle struct {
	EndPoint       string `json:"end_point"`
	PriceThreshold int    `json:"price_threshold"`
}
