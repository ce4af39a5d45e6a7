package gpu

// WGSL compute shader for matrix multiplication.
// Using a string constant instead of embed for simplicity.

// workgroupEdge is the side length of the 2-D workgroup grid. 16x16 = 256
// threads, at or under the default max-threads-per-workgroup of every
// WebGPU adapter.
const workgroupEdge = 16

// matmulShader computes C = A @ B with one thread per output element.
// A is [M, K], B is [K, N], C is [M, N], all row-major f32. Each thread
// walks the K dimension directly from storage buffers; no shared-memory
// tiling, bandwidth dominates at the sizes routed here.
const matmulShader = `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    M: u32,  // rows of A and C
    K: u32,  // cols of A, rows of B
    N: u32,  // cols of B and C
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(16, 16)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let row = global_id.y;
    let col = global_id.x;

    if (row >= params.M || col >= params.N) {
        return;
    }

    var sum: f32 = 0.0;
    for (var k: u32 = 0u; k < params.K; k = k + 1u) {
        let a_idx = row * params.K + k;
        let b_idx = k * params.N + col;
        sum = sum + a[a_idx] * b[b_idx];
    }

    result[row * params.N + col] = sum;
}
`
