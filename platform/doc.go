// Package platform provides the memory allocator used for driver-owned
// copies of client data.
//
// [Heap] is a budgeted [Allocator] that tags each allocation with a
// [Category] and reports usage through [Heap.Stats]. Its budget comes from
// [HeapConfig], which hosts may load from a TOML settings file with
// [LoadHeapConfig].
package platform
