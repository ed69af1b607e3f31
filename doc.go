// Package pbjson converts between protobuf records and in-memory JSON value
// trees using protobuf reflection only, so it works the same for generated and
// dynamic (dynamicpb) messages.
//
// Decode walks the members of a JSON object, resolves each key to a field by
// name and assigns it through protoreflect; Encode walks the declared fields
// of a record and builds a jsonv object. Both directions share one dispatch
// table keyed by Kind, the closed set of field kinds the codec understands.
//
// Mapping rules:
//
//   - double/float take any JSON number; 32/64-bit integer kinds take integer
//     literals in range; bool and string take their JSON counterpart.
//   - enums decode from a number or a symbolic name and encode as the number
//     (EncodeOpt.EnumsAsNames switches encode to names).
//   - repeated fields are arrays and are always emitted; maps are arrays of
//     {"key":…, "value":…} objects ordered by key.
//   - singular fields are emitted when required or present.
//   - unknown JSON keys are rejected unless DecodeOpt.Unknown is UnknownStrip.
//
// Decode failures are returned as *Issue carrying a root-to-fault path such as
// /addresses[1]/street; match the failure class with errors.Is against
// ErrTypeMismatch, ErrUnknownField and the other sentinels.
//
// The codec keeps no state between calls. Calls on disjoint records and trees
// may run concurrently; sharing a record or tree across concurrent calls needs
// external synchronization.
//
// Typical usage:
//
//	v, err := jsonv.Parse(data)
//	err = pbjson.Decode(v, msg.ProtoReflect())
//
//	out := pbjson.Encode(msg.ProtoReflect())
//	b, err := out.MarshalIndent("", "  ")
package pbjson
