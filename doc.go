// Package archive persists Go values to binary files and in-memory buffers.
//
// An [Archive] binds a byte stream (see package stream) to a [Registry]. Each
// value handed to [Archive.Value] is dispatched to the strategy resolved for
// its type and the archive's [Kind]:
//
//  1. explicit save/load hooks ([Saver] and [Loader], or [Trait.Save] and
//     [Trait.Load] registered with [Register]),
//  2. a single bidirectional hook ([Serializer], or [Trait.Serialize]),
//  3. a raw byte copy for types marked trivially serializable ([MarkTrivial];
//     numeric types are trivially serializable for [KindBinary]),
//  4. the generic container codecs for strings, slices, arrays, maps and
//     pointers.
//
// A type defining both 1 and 2 is rejected with an [AmbiguousTraitError]. A
// type matching none of the above fails with a [NotSupportedError]. Strategies
// are resolved once per type and kind and cached.
//
// Hooks are written in terms of the wire primitives [Label], [Named],
// [PacketOf], [FixedPacketOf] and [SequenceOf]. The binary archive drops
// labels and copies packets verbatim, the text archive writes labels and
// verifies them when reading. A single [Serializer] thus serves both formats.
//
// The binary format is a host byte order concatenation of the encoded fields.
// It carries no version tag: a reader must know the exact type it decodes.
package archive
