// Package mem provides the backing-memory allocators used by byte pools.
//
// # Allocators
//
// An Allocator hands out zeroed, 64-byte aligned blocks:
//
//   - Heap draws from the Go heap; Free just drops the block.
//   - Mmap maps every block anonymously outside the Go heap and unmaps it on
//     Free. Blocks must be returned with Free or released with Close.
package mem
