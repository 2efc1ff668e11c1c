package mq

import (
	"fmt"

	"s-controller-sol/internal/types"

	"github.com/blocto/solana-go-sdk/common"
	soltypes "github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"google.golang.org/protobuf/types/known/structpb"
)

type AccountMetaJob struct {
	Pubkey     string
	IsSigner   bool
	IsWritable bool
}

// InstructionJob 一条待签名提交的控制程序指令
type InstructionJob struct {
	Name       string
	ProgramID  string
	Accounts   []AccountMetaJob
	DataBase58 string
}

func NewInstructionJob(name string, ix soltypes.Instruction) *InstructionJob {
	accounts := make([]AccountMetaJob, 0, len(ix.Accounts))
	for _, meta := range ix.Accounts {
		accounts = append(accounts, AccountMetaJob{
			Pubkey:     meta.PubKey.ToBase58(),
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
		})
	}
	return &InstructionJob{
		Name:       name,
		ProgramID:  ix.ProgramID.ToBase58(),
		Accounts:   accounts,
		DataBase58: base58.Encode(ix.Data),
	}
}

// Instruction 还原为 sdk 指令
func (j *InstructionJob) Instruction() (soltypes.Instruction, error) {
	program, err := types.TryPubkeyFromBase58(j.ProgramID)
	if err != nil {
		return soltypes.Instruction{}, err
	}
	data, err := base58.Decode(j.DataBase58)
	if err != nil {
		return soltypes.Instruction{}, fmt.Errorf("decode ix data: %w", err)
	}
	metas := make([]soltypes.AccountMeta, 0, len(j.Accounts))
	for i, acc := range j.Accounts {
		key, err := types.TryPubkeyFromBase58(acc.Pubkey)
		if err != nil {
			return soltypes.Instruction{}, fmt.Errorf("account %d: %w", i, err)
		}
		metas = append(metas, soltypes.AccountMeta{
			PubKey:     common.PublicKey(key),
			IsSigner:   acc.IsSigner,
			IsWritable: acc.IsWritable,
		})
	}
	return soltypes.Instruction{ProgramID: program.Common(), Accounts: metas, Data: data}, nil
}

func (j *InstructionJob) toProto() (*structpb.Struct, error) {
	accounts := make([]interface{}, 0, len(j.Accounts))
	for _, acc := range j.Accounts {
		accounts = append(accounts, map[string]interface{}{
			"pubkey":      acc.Pubkey,
			"is_signer":   acc.IsSigner,
			"is_writable": acc.IsWritable,
		})
	}
	return structpb.NewStruct(map[string]interface{}{
		"name":       j.Name,
		"program_id": j.ProgramID,
		"accounts":   accounts,
		"data":       j.DataBase58,
	})
}

func instructionJobFromProto(st *structpb.Struct) *InstructionJob {
	fields := st.GetFields()
	job := &InstructionJob{
		Name:       fields["name"].GetStringValue(),
		ProgramID:  fields["program_id"].GetStringValue(),
		DataBase58: fields["data"].GetStringValue(),
	}
	for _, v := range fields["accounts"].GetListValue().GetValues() {
		acc := v.GetStructValue().GetFields()
		job.Accounts = append(job.Accounts, AccountMetaJob{
			Pubkey:     acc["pubkey"].GetStringValue(),
			IsSigner:   acc["is_signer"].GetBoolValue(),
			IsWritable: acc["is_writable"].GetBoolValue(),
		})
	}
	return job
}

func EncodeInstructionJob(job *InstructionJob) ([]byte, error) {
	st, err := job.toProto()
	if err != nil {
		return nil, fmt.Errorf("build instruction job %s: %w", job.Name, err)
	}
	return EncodeEvent(EventInstruction, st)
}

func DecodeInstructionJob(data []byte) (*InstructionJob, error) {
	var st structpb.Struct
	if err := DecodeEvent(data, EventInstruction, &st); err != nil {
		return nil, err
	}
	return instructionJobFromProto(&st), nil
}
