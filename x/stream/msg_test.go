package stream

import (
	"testing"

	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/crypto"
	"github.com/iov-one/streampay/errors"
	"github.com/iov-one/streampay/streamtest"
	"github.com/iov-one/streampay/streamtest/assert"
)

func TestMsgValidate(t *testing.T) {
	recipient := streamtest.NewCondition().Address()
	goodSig := make(crypto.Signature, crypto.SignatureSize)

	cases := map[string]struct {
		msg     streampay.Msg
		path    string
		wantErr *errors.Error
	}{
		"valid create": {
			msg: &CreateMsg{
				Recipient:       recipient,
				Amount:          10,
				PaymentPerBlock: 1,
				Timeframe:       Timeframe{StartBlock: 1, EndBlock: 10},
			},
			path: "stream/create",
		},
		"create without recipient": {
			msg: &CreateMsg{
				Amount:          10,
				PaymentPerBlock: 1,
				Timeframe:       Timeframe{StartBlock: 1, EndBlock: 10},
			},
			path:    "stream/create",
			wantErr: errors.ErrInput,
		},
		"create with zero amount": {
			msg: &CreateMsg{
				Recipient:       recipient,
				PaymentPerBlock: 1,
				Timeframe:       Timeframe{StartBlock: 1, EndBlock: 10},
			},
			path:    "stream/create",
			wantErr: errors.ErrMsg,
		},
		"create with zero rate": {
			msg: &CreateMsg{
				Recipient: recipient,
				Amount:    10,
				Timeframe: Timeframe{StartBlock: 1, EndBlock: 10},
			},
			path:    "stream/create",
			wantErr: errors.ErrMsg,
		},
		"create with inverted timeframe": {
			msg: &CreateMsg{
				Recipient:       recipient,
				Amount:          10,
				PaymentPerBlock: 1,
				Timeframe:       Timeframe{StartBlock: 10, EndBlock: 1},
			},
			path:    "stream/create",
			wantErr: ErrInvalidTimeframe,
		},
		"valid refuel": {
			msg:  &RefuelMsg{StreamID: streamtest.SequenceID(1), Amount: 5},
			path: "stream/refuel",
		},
		"refuel without stream": {
			msg:     &RefuelMsg{Amount: 5},
			path:    "stream/refuel",
			wantErr: errors.ErrMsg,
		},
		"valid withdraw": {
			msg:  &WithdrawMsg{StreamID: streamtest.SequenceID(1)},
			path: "stream/withdraw",
		},
		"withdraw without stream": {
			msg:     &WithdrawMsg{},
			path:    "stream/withdraw",
			wantErr: errors.ErrMsg,
		},
		"valid refund": {
			msg:  &RefundMsg{StreamID: streamtest.SequenceID(1)},
			path: "stream/refund",
		},
		"valid update": {
			msg: &UpdateDetailsMsg{
				StreamID:        streamtest.SequenceID(1),
				PaymentPerBlock: 2,
				Timeframe:       Timeframe{StartBlock: 1, EndBlock: 10},
				Counterparty:    recipient,
				Signature:       goodSig,
			},
			path: "stream/update",
		},
		"update without counterparty": {
			msg: &UpdateDetailsMsg{
				StreamID:        streamtest.SequenceID(1),
				PaymentPerBlock: 2,
				Timeframe:       Timeframe{StartBlock: 1, EndBlock: 10},
				Signature:       goodSig,
			},
			path:    "stream/update",
			wantErr: errors.ErrInput,
		},
		"update with truncated signature": {
			msg: &UpdateDetailsMsg{
				StreamID:        streamtest.SequenceID(1),
				PaymentPerBlock: 2,
				Timeframe:       Timeframe{StartBlock: 1, EndBlock: 10},
				Counterparty:    recipient,
				Signature:       goodSig[:10],
			},
			path:    "stream/update",
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.path, tc.msg.Path())
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}
