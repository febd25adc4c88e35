package resp_test

import (
	"testing"

	"github.com/eternalApril/starlight/internal/resp"
)

func TestClassify(t *testing.T) {
	errReply := resp.Classify(resp.MakeError("ERR unknown command 'foobar'"))
	if !errReply.Failed {
		t.Error("Classify() error value not marked failed")
	}
	if errReply.Message != "ERR unknown command 'foobar'" {
		t.Errorf("Classify() message = %q", errReply.Message)
	}

	for _, v := range []resp.Value{
		resp.MakeSimpleString("OK"),
		resp.MakeInteger(42),
		resp.MakeBulkString("payload"),
		resp.MakeArray(nil),
		resp.MakeNull(),
	} {
		reply := resp.Classify(v)
		if reply.Failed {
			t.Errorf("Classify(%+v) marked failed", v)
		}
		if !valuesEqual(reply.Value, v) {
			t.Errorf("Classify(%+v) value = %+v", v, reply.Value)
		}
	}
}
