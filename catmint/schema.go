// Package catmint holds the message schema of the cat-mint contract and the
// pricing rule it enforces on mint_cat.
package catmint

import (
	"fmt"
	"strconv"
	"time"
)

type ExecuteMsg struct {
	MintCat      *MintCat      `json:"mint_cat,omitempty"`
	UpdateConfig *UpdateConfig `json:"update_config,omitempty"`
}

type MintCat struct{}

// UpdateConfig is only accepted from the contract owner.
type UpdateConfig struct {
	CatTokenContract *string `json:"cat_token_contract,omitempty"`
}

type QueryMsg struct {
	GetState *GetState `json:"get_state,omitempty"`
}

type GetState struct{}

type StateResponse struct {
	State *State `json:"state,omitempty"`
}

type State struct {
	Owner            string    `json:"owner"`
	CatTokenContract string    `json:"cat_token_contract"`
	GenesisTimestamp Timestamp `json:"genesis_timestamp"`
	FundsWallet      string    `json:"funds_wallet"`
}

// Timestamp is a cosmwasm timestamp: nanoseconds since the epoch as a decimal string.
type Timestamp string

func (t Timestamp) Time() (time.Time, error) {
	nanos, err := strconv.ParseInt(string(t), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", string(t), err)
	}
	if nanos < 0 {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: before the epoch", string(t))
	}
	return time.Unix(0, nanos).UTC(), nil
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(strconv.FormatInt(t.UnixNano(), 10))
}

func MintCatMsg() ExecuteMsg {
	return ExecuteMsg{MintCat: &MintCat{}}
}

func UpdateConfigMsg(catTokenContract string) ExecuteMsg {
	return ExecuteMsg{UpdateConfig: &UpdateConfig{CatTokenContract: &catTokenContract}}
}

func GetStateQuery() QueryMsg {
	return QueryMsg{GetState: &GetState{}}
}
