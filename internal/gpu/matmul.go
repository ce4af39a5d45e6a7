package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/gemm-go/gemm/internal/matrix"
)

// Multiply computes C = A @ B on the GPU.
//
// Inputs are float64 matrices; the kernel computes in float32, so elements
// are downcast on upload and the result is upcast on readback. The precision
// loss is expected and documented: callers needing float64 accumulation use
// a CPU kernel.
func (d *Device) Multiply(a, b *matrix.Dense) (c *matrix.Dense, err error) {
	// A device fault surfaces as a panic inside wgpu; fail the call, not
	// the process.
	defer func() {
		if r := recover(); r != nil {
			c = nil
			err = &matrix.AllocationError{What: "device buffers", Err: fmt.Errorf("gpu: %v", r)}
		}
	}()

	if err := matrix.CheckMul(a, b); err != nil {
		return nil, err
	}

	a = a.ToOrder(matrix.RowMajor)
	b = b.ToOrder(matrix.RowMajor)

	//nolint:gosec // G115: shape dimensions are non-negative
	m := uint32(a.Rows())
	//nolint:gosec // G115: shape dimensions are non-negative
	k := uint32(a.Cols())
	//nolint:gosec // G115: shape dimensions are non-negative
	n := uint32(b.Cols())

	bufferA := d.createBuffer(downcast(a.Data()), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferA.Release()

	bufferB := d.createBuffer(downcast(b.Data()), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferB.Release()

	resultSize := uint64(int(m) * int(n) * 4) // float32 = 4 bytes
	bufferResult := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferResult.Release()

	// Uniform buffer for the dimension triple (M, K, N: u32 each).
	params := make([]byte, 16) // 16-byte aligned (3 u32 = 12 bytes, padded to 16)
	binary.LittleEndian.PutUint32(params[0:4], m)
	binary.LittleEndian.PutUint32(params[4:8], k)
	binary.LittleEndian.PutUint32(params[8:12], n)
	bufferParams := d.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := d.pipeline.GetBindGroupLayout(0)
	bindGroup := d.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferA, 0, uint64(int(m)*int(k)*4)),
		wgpu.BufferBindingEntry(1, bufferB, 0, uint64(int(k)*int(n)*4)),
		wgpu.BufferBindingEntry(2, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	encoder := d.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(d.pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	// One thread per output element in a 2-D grid sized to (N, M).
	workgroupsX := uint32(math.Ceil(float64(n) / float64(workgroupEdge)))
	workgroupsY := uint32(math.Ceil(float64(m) / float64(workgroupEdge)))
	computePass.DispatchWorkgroups(workgroupsX, workgroupsY, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	d.queue.Submit(cmdBuffer)

	resultData, err := d.readBuffer(bufferResult, resultSize)
	if err != nil {
		return nil, err
	}

	return matrix.NewDense(int(m), int(n), upcast(resultData))
}

// createBuffer creates a GPU buffer and uploads initial data.
func (d *Device) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))

	buffer := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// createUniformBuffer creates a uniform buffer with 16-byte alignment.
func (d *Device) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15

	buffer := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// readBuffer reads data back from a GPU buffer to CPU memory.
// Uses a staging buffer since storage buffers can't be mapped directly.
func (d *Device) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	stagingBuffer := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer stagingBuffer.Release()

	encoder := d.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer := encoder.Finish(nil)
	d.queue.Submit(cmdBuffer)

	err := stagingBuffer.MapAsync(d.device, wgpu.MapModeRead, 0, size)
	if err != nil {
		return nil, fmt.Errorf("gpu: failed to map staging buffer: %w", err)
	}

	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)

	stagingBuffer.Unmap()

	return result, nil
}

// downcast converts float64 host data to the f32 bytes the shader reads.
func downcast(src []float64) []byte {
	dst := make([]float32, len(src))
	for i, v := range src {
		dst[i] = float32(v)
	}
	//nolint:gosec // unsafe.Slice for zero-copy []float32 -> []byte view
	return unsafe.Slice((*byte)(unsafe.Pointer(&dst[0])), len(dst)*4)
}

// upcast converts f32 result bytes back to the caller's float64 type.
func upcast(raw []byte) []float64 {
	//nolint:gosec // unsafe.Slice for zero-copy []byte -> []float32 view
	src := unsafe.Slice((*float32)(unsafe.Pointer(&raw[0])), len(raw)/4)
	dst := make([]float64, len(src))
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}
