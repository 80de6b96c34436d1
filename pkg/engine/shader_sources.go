package engine

// Shader sources for the GPU particle pipeline

// Vertex shader: advances each particle's screen position by
// velocity * elapsed ticks entirely on-device. The host-side particle
// positions are not written back; the GPU path is a visually equivalent
// alternate renderer, not a second source of truth for physics.
const particleVertexShaderSource = `
#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aVel;
layout (location = 2) in float aSize;
layout (location = 3) in vec3 aColor;
layout (location = 4) in float aLife;

uniform vec2 uBounds;
uniform float uTime;

out vec3 vColor;
out float vLife;

void main() {
    // Toroidal wraparound, same topology as the host-side step
    vec2 pos = mod(aPos + aVel * uTime, uBounds);

    vec2 ndc = pos / uBounds * 2.0 - 1.0;
    gl_Position = vec4(ndc.x, -ndc.y, 0.0, 1.0);
    gl_PointSize = aSize;

    vColor = aColor;
    vLife = aLife;
}
`

// Fragment shader: soft circular falloff modulated by per-particle life
const particleFragmentShaderSource = `
#version 410 core
in vec3 vColor;
in float vLife;

out vec4 FragColor;

void main() {
    float dist = length(gl_PointCoord - vec2(0.5));
    if (dist > 0.5) {
        discard;
    }

    float alpha = 1.0 - dist * 2.0;
    FragColor = vec4(vColor, alpha * vLife);
}
`
