package effect

const basicVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec4 aColor;

uniform mat4 uWorld;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;
out vec4 vColor;

void main() {
	vec4 worldPos = uWorld * vec4(aPosition, 1.0);
	gl_Position = uProjection * uView * worldPos;
	vNormal = mat3(uWorld) * aNormal;
	vColor = aColor;
}
`

const skinnedVertexShader = `
#version 410 core

const int MAX_BONES = 72;

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec4 aColor;
layout (location = 3) in vec4 aBoneIndices;
layout (location = 4) in vec4 aBoneWeights;

uniform mat4 uBones[MAX_BONES];
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;
out vec4 vColor;

void main() {
	mat4 skin =
		uBones[int(aBoneIndices.x)] * aBoneWeights.x +
		uBones[int(aBoneIndices.y)] * aBoneWeights.y +
		uBones[int(aBoneIndices.z)] * aBoneWeights.z +
		uBones[int(aBoneIndices.w)] * aBoneWeights.w;

	vec4 worldPos = skin * vec4(aPosition, 1.0);
	gl_Position = uProjection * uView * worldPos;
	vNormal = mat3(skin) * aNormal;
	vColor = aColor;
}
`

const litFragmentShader = `
#version 410 core

in vec3 vNormal;
in vec4 vColor;

out vec4 FragColor;

void main() {
	vec3 lightDir = normalize(vec3(0.4, 0.8, 0.5));
	float diffuse = max(dot(normalize(vNormal), lightDir), 0.0);
	vec3 lit = vColor.rgb * (0.35 + 0.65 * diffuse);
	FragColor = vec4(lit, vColor.a);
}
`
