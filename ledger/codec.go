package ledger

import (
	"fmt"

	"github.com/CosmWasm/tinyjson/jlexer"
	"github.com/CosmWasm/tinyjson/jwriter"

	"labshare_dao/sdk"
)

// Wire encoding for requests, results and events. The same JSON shape is used
// by the HTTP API and by RedisStore for the event list.

func (r TxRequest) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	encodeTxRequest(&w, &r)
	return w.BuildBytes()
}

func (r *TxRequest) UnmarshalJSON(data []byte) error {
	l := jlexer.Lexer{Data: data}
	decodeTxRequest(&l, r)
	return l.Error()
}

func (q QueryRequest) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	w.RawString(`{"action":`)
	w.String(q.Action)
	w.RawString(`,"objects":`)
	writeObjectIDs(&w, q.Objects)
	w.RawString(`,"payload":`)
	w.String(q.Payload)
	w.RawByte('}')
	return w.BuildBytes()
}

func (q *QueryRequest) UnmarshalJSON(data []byte) error {
	l := jlexer.Lexer{Data: data}
	in := &l
	if in.IsNull() {
		in.Skip()
		return nil
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "action":
			q.Action = in.String()
		case "objects":
			q.Objects = readObjectIDs(in)
		case "payload":
			q.Payload = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	in.Consumed()
	return l.Error()
}

func (r TxResult) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	encodeTxResult(&w, &r)
	return w.BuildBytes()
}

func (r *TxResult) UnmarshalJSON(data []byte) error {
	l := jlexer.Lexer{Data: data}
	decodeTxResult(&l, r)
	return l.Error()
}

func (e Event) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	encodeEvent(&w, &e)
	return w.BuildBytes()
}

func (e *Event) UnmarshalJSON(data []byte) error {
	l := jlexer.Lexer{Data: data}
	decodeEvent(&l, e)
	l.Consumed()
	return l.Error()
}

func encodeTxRequest(out *jwriter.Writer, r *TxRequest) {
	out.RawString(`{"sender":`)
	out.String(string(r.Sender))
	out.RawString(`,"action":`)
	out.String(r.Action)
	out.RawString(`,"objects":`)
	writeObjectIDs(out, r.Objects)
	out.RawString(`,"payload":`)
	out.String(r.Payload)
	out.RawString(`,"intents":[`)
	for i, in := range r.Intents {
		if i > 0 {
			out.RawByte(',')
		}
		out.RawString(`{"type":`)
		out.String(in.Type)
		out.RawString(`,"args":`)
		writeStringMap(out, in.Args)
		out.RawByte('}')
	}
	out.RawString(`]}`)
}

func decodeTxRequest(in *jlexer.Lexer, r *TxRequest) {
	if in.IsNull() {
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "sender":
			raw := in.String()
			if addr, ok := sdk.ParseAddress(raw); ok {
				r.Sender = addr
			} else {
				r.Sender = sdk.Address(raw)
			}
		case "action":
			r.Action = in.String()
		case "objects":
			r.Objects = readObjectIDs(in)
		case "payload":
			r.Payload = in.String()
		case "intents":
			r.Intents = readIntents(in)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	in.Consumed()
}

func encodeAbort(out *jwriter.Writer, a *sdk.AbortError) {
	if a == nil {
		out.RawString("null")
		return
	}
	out.RawString(`{"module":`)
	out.String(a.Module)
	out.RawString(`,"code":`)
	out.Uint64(a.Code)
	out.RawString(`,"message":`)
	out.String(a.Message)
	out.RawByte('}')
}

func decodeAbort(in *jlexer.Lexer) *sdk.AbortError {
	a := &sdk.AbortError{}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "module":
			a.Module = in.String()
		case "code":
			a.Code = in.Uint64()
		case "message":
			a.Message = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	return a
}

func encodeTxResult(out *jwriter.Writer, r *TxResult) {
	out.RawString(`{"digest":`)
	out.String(r.Digest)
	out.RawString(`,"success":`)
	out.Bool(r.Success)
	out.RawString(`,"ret":`)
	out.String(r.Ret)
	out.RawString(`,"abort":`)
	encodeAbort(out, r.Abort)
	out.RawString(`,"timestamp":`)
	out.Int64(r.Timestamp)
	out.RawString(`,"created":`)
	writeObjectIDs(out, r.Created)
	out.RawString(`,"events":[`)
	for i := range r.Events {
		if i > 0 {
			out.RawByte(',')
		}
		encodeEvent(out, &r.Events[i])
	}
	out.RawString(`]}`)
}

func decodeTxResult(in *jlexer.Lexer, r *TxResult) {
	if in.IsNull() {
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "digest":
			r.Digest = in.String()
		case "success":
			r.Success = in.Bool()
		case "ret":
			r.Ret = in.String()
		case "abort":
			r.Abort = decodeAbort(in)
		case "timestamp":
			r.Timestamp = in.Int64()
		case "created":
			r.Created = readObjectIDs(in)
		case "events":
			in.Delim('[')
			for !in.IsDelim(']') {
				var ev Event
				decodeEvent(in, &ev)
				r.Events = append(r.Events, ev)
				in.WantComma()
			}
			in.Delim(']')
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	in.Consumed()
}

func encodeEvent(out *jwriter.Writer, e *Event) {
	out.RawString(`{"seq":`)
	out.Uint64(e.Seq)
	out.RawString(`,"tx_digest":`)
	out.String(e.TxDigest)
	out.RawString(`,"index":`)
	out.Int(e.Index)
	out.RawString(`,"type":`)
	out.String(e.Type)
	out.RawString(`,"sender":`)
	out.String(string(e.Sender))
	out.RawString(`,"timestamp":`)
	out.Int64(e.Timestamp)
	out.RawString(`,"fields":`)
	writeStringMap(out, e.Fields)
	out.RawByte('}')
}

func decodeEvent(in *jlexer.Lexer, e *Event) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "seq":
			e.Seq = in.Uint64()
		case "tx_digest":
			e.TxDigest = in.String()
		case "index":
			e.Index = in.Int()
		case "type":
			e.Type = in.String()
		case "sender":
			e.Sender = sdk.Address(in.String())
		case "timestamp":
			e.Timestamp = in.Int64()
		case "fields":
			e.Fields = readStringMap(in)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

// EncodeEvents renders a page of events as a JSON array.
func EncodeEvents(events []Event) ([]byte, error) {
	w := jwriter.Writer{}
	w.RawByte('[')
	for i := range events {
		if i > 0 {
			w.RawByte(',')
		}
		encodeEvent(&w, &events[i])
	}
	w.RawByte(']')
	return w.BuildBytes()
}

// DecodeEvents is the inverse of EncodeEvents.
func DecodeEvents(data []byte) ([]Event, error) {
	l := jlexer.Lexer{Data: data}
	var out []Event
	l.Delim('[')
	for !l.IsDelim(']') {
		var ev Event
		decodeEvent(&l, &ev)
		out = append(out, ev)
		l.WantComma()
	}
	l.Delim(']')
	l.Consumed()
	return out, l.Error()
}

func writeObjectIDs(out *jwriter.Writer, ids []sdk.ObjectID) {
	out.RawByte('[')
	for i, id := range ids {
		if i > 0 {
			out.RawByte(',')
		}
		out.String(id.String())
	}
	out.RawByte(']')
}

func readObjectIDs(in *jlexer.Lexer) []sdk.ObjectID {
	var ids []sdk.ObjectID
	in.Delim('[')
	for !in.IsDelim(']') {
		raw := in.String()
		id, ok := sdk.ParseObjectID(raw)
		if !ok {
			in.AddError(fmt.Errorf("invalid object id %q", raw))
		}
		ids = append(ids, id)
		in.WantComma()
	}
	in.Delim(']')
	return ids
}

func readIntents(in *jlexer.Lexer) []sdk.Intent {
	var intents []sdk.Intent
	in.Delim('[')
	for !in.IsDelim(']') {
		var it sdk.Intent
		in.Delim('{')
		for !in.IsDelim('}') {
			key := in.UnsafeFieldName(false)
			in.WantColon()
			switch key {
			case "type":
				it.Type = in.String()
			case "args":
				it.Args = readStringMap(in)
			default:
				in.SkipRecursive()
			}
			in.WantComma()
		}
		in.Delim('}')
		intents = append(intents, it)
		in.WantComma()
	}
	in.Delim(']')
	return intents
}

func writeStringMap(out *jwriter.Writer, m map[string]string) {
	out.RawByte('{')
	for i, k := range sortedKeys(m) {
		if i > 0 {
			out.RawByte(',')
		}
		out.String(k)
		out.RawByte(':')
		out.String(m[k])
	}
	out.RawByte('}')
}

func readStringMap(in *jlexer.Lexer) map[string]string {
	m := make(map[string]string)
	if in.IsNull() {
		in.Skip()
		return m
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		k := in.String()
		in.WantColon()
		m[k] = in.String()
		in.WantComma()
	}
	in.Delim('}')
	return m
}
