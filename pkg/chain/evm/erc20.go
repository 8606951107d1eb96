package evm

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ERC20MetaData holds the subset of the ERC-20 ABI the wallet uses.
var ERC20MetaData = &bind.MetaData{
	ABI: `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]}
]`,
}

// ERC20 is a binding around an ERC-20 token contract.
type ERC20 struct {
	address  common.Address
	contract *bind.BoundContract
}

// NewERC20 binds the token at address.
func NewERC20(address common.Address, backend bind.ContractBackend) (*ERC20, error) {
	parsed, err := ERC20MetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	if parsed == nil {
		return nil, fmt.Errorf("nil ERC-20 ABI")
	}
	contract := bind.NewBoundContract(address, *parsed, backend, backend, backend)
	return &ERC20{address: address, contract: contract}, nil
}

// Address returns the token contract address.
func (t *ERC20) Address() common.Address { return t.address }

// BalanceOf calls balanceOf(account).
func (t *ERC20) BalanceOf(opts *bind.CallOpts, account common.Address) (*big.Int, error) {
	return t.callUint256(opts, "balanceOf", account)
}

// Allowance calls allowance(owner, spender).
func (t *ERC20) Allowance(opts *bind.CallOpts, owner, spender common.Address) (*big.Int, error) {
	return t.callUint256(opts, "allowance", owner, spender)
}

// Transfer sends transfer(to, value).
func (t *ERC20) Transfer(opts *bind.TransactOpts, to common.Address, value *big.Int) (*types.Transaction, error) {
	return t.contract.Transact(opts, "transfer", to, value)
}

// Approve sends approve(spender, value).
func (t *ERC20) Approve(opts *bind.TransactOpts, spender common.Address, value *big.Int) (*types.Transaction, error) {
	return t.contract.Transact(opts, "approve", spender, value)
}

// UnpackTransfer decodes transfer(to, value) calldata.
func UnpackTransfer(data []byte) (common.Address, *big.Int, error) {
	parsed, err := ERC20MetaData.GetAbi()
	if err != nil {
		return common.Address{}, nil, err
	}
	method := parsed.Methods["transfer"]
	if len(data) < 4 || !bytes.Equal(data[:4], method.ID) {
		return common.Address{}, nil, fmt.Errorf("not an ERC-20 transfer call")
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("unpack transfer: %w", err)
	}
	to, ok := args[0].(common.Address)
	if !ok {
		return common.Address{}, nil, fmt.Errorf("unexpected transfer recipient type %T", args[0])
	}
	value, ok := args[1].(*big.Int)
	if !ok {
		return common.Address{}, nil, fmt.Errorf("unexpected transfer value type %T", args[1])
	}
	return to, value, nil
}

func (t *ERC20) callUint256(opts *bind.CallOpts, method string, params ...interface{}) (*big.Int, error) {
	var out []interface{}
	if err := t.contract.Call(opts, &out, method, params...); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty result", method)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}
