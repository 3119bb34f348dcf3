package spirv

import "testing"

func TestCapabilitySet_Basics(t *testing.T) {
	var s CapabilitySet
	if !s.Empty() {
		t.Error("zero set should be empty")
	}

	s.Add(CapabilityShader)
	s.Add(CapabilityGroupNonUniformBallot)
	s.Add(CapabilitySubgroupBallotKHR)
	s.Add(CapabilityShader) // re-add is a no-op

	if s.Empty() {
		t.Error("set with members should not be empty")
	}
	if !s.Contains(CapabilityShader) {
		t.Error("set should contain Shader")
	}
	if !s.Contains(CapabilitySubgroupBallotKHR) {
		t.Error("set should contain SubgroupBallotKHR")
	}
	if s.Contains(CapabilityMatrix) {
		t.Error("set should not contain Matrix")
	}

	got := s.List()
	if len(got) != 3 {
		t.Fatalf("List returned %d capabilities, want 3: %v", len(got), got)
	}

	other := capsOf(CapabilityShader, CapabilityGroupNonUniformBallot)
	if !s.ContainsAll(other) {
		t.Error("set should contain all of its subset")
	}
	if other.ContainsAll(s) {
		t.Error("subset should not contain the full set")
	}

	union := other.Union(capsOf(CapabilityMatrix))
	if !union.Contains(CapabilityMatrix) || !union.Contains(CapabilityShader) {
		t.Errorf("union is missing members: %v", union.List())
	}
}

func TestCapabilitySet_IgnoresUnregistered(t *testing.T) {
	var s CapabilitySet
	s.Add(Capability(9999))
	if !s.Empty() {
		t.Error("unregistered capability should not be tracked")
	}
	if s.Contains(Capability(9999)) {
		t.Error("Contains should report false for unregistered capability")
	}
}

func TestCapability_String(t *testing.T) {
	tests := []struct {
		cap  Capability
		want string
	}{
		{CapabilityMatrix, "Matrix"},
		{CapabilityShader, "Shader"},
		{CapabilityGroupNonUniform, "GroupNonUniform"},
		{CapabilityShaderViewportIndex, "ShaderViewportIndex"},
		{CapabilitySubgroupBallotKHR, "SubgroupBallotKHR"},
		{CapabilityDotProduct, "DotProduct"},
		{Capability(9999), "Capability(9999)"},
	}
	for _, tt := range tests {
		if got := tt.cap.String(); got != tt.want {
			t.Errorf("Capability(%d).String() = %q, want %q", uint32(tt.cap), got, tt.want)
		}
	}
}

func TestCapabilityMinimumVersion(t *testing.T) {
	tests := []struct {
		cap  Capability
		want Version
	}{
		{CapabilityShader, Version1_0},
		{CapabilitySubgroupDispatch, Version1_1},
		{CapabilityNamedBarrier, Version1_1},
		{CapabilityGroupNonUniform, Version1_3},
		{CapabilityGroupNonUniformQuad, Version1_3},
		{CapabilityShaderLayer, Version1_5},
		{CapabilityDemoteToHelperInvocation, Version1_6},
		{CapabilityDotProduct, Version1_6},
		{CapabilitySubgroupBallotKHR, Version1_0},
		{CapabilityStorageBuffer16BitAccess, Version1_0},
	}
	for _, tt := range tests {
		if got := CapabilityMinimumVersion(tt.cap); got != tt.want {
			t.Errorf("CapabilityMinimumVersion(%s) = %s, want %s", tt.cap, got, tt.want)
		}
	}

	// Unregistered capabilities report the newest version so callers
	// treat them conservatively.
	if got := CapabilityMinimumVersion(Capability(9999)); got != Newest {
		t.Errorf("CapabilityMinimumVersion(unregistered) = %s, want %s", got, Newest)
	}
}

func TestRequiredCapabilities(t *testing.T) {
	tests := []struct {
		op   OpCode
		want []Capability
	}{
		{OpGroupNonUniformElect, []Capability{CapabilityGroupNonUniform}},
		{OpGroupNonUniformBallot, []Capability{CapabilityGroupNonUniformBallot}},
		{OpGroupNonUniformShuffle, []Capability{CapabilityGroupNonUniformShuffle}},
		{OpGroupNonUniformQuadSwap, []Capability{CapabilityGroupNonUniformQuad}},
		{OpSubgroupBallotKHR, []Capability{CapabilitySubgroupBallotKHR}},
		{OpSubgroupAllKHR, []Capability{CapabilitySubgroupVoteKHR}},
		{OpDemoteToHelperInvocation, []Capability{CapabilityDemoteToHelperInvocation}},
		{OpSDot, []Capability{CapabilityDotProduct}},
		{OpKill, []Capability{CapabilityShader}},
		{OpTypeMatrix, []Capability{CapabilityMatrix}},
		{OpIAdd, nil},
		{OpLoad, nil},
	}
	for _, tt := range tests {
		got := RequiredCapabilities(tt.op).List()
		if len(got) != len(tt.want) {
			t.Errorf("RequiredCapabilities(%s) = %v, want %v", tt.op, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("RequiredCapabilities(%s) = %v, want %v", tt.op, got, tt.want)
			}
		}
	}
}

func TestHasCapabilities(t *testing.T) {
	enabled := capsOf(CapabilityShader, CapabilityGroupNonUniform)

	if !HasCapabilities(OpGroupNonUniformElect, enabled) {
		t.Error("Elect should be usable with GroupNonUniform enabled")
	}
	if HasCapabilities(OpGroupNonUniformBallot, enabled) {
		t.Error("Ballot should need GroupNonUniformBallot")
	}
	if !HasCapabilities(OpIAdd, CapabilitySet{}) {
		t.Error("plain arithmetic should need no capabilities")
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		op   OpCode
		want string
	}{
		{OpSubgroupBallotKHR, ExtShaderBallot},
		{OpSubgroupFirstInvocationKHR, ExtShaderBallot},
		{OpSubgroupAllKHR, ExtSubgroupVote},
		{OpTerminateInvocation, ExtTerminateInvocation},
		{OpDemoteToHelperInvocation, ExtDemoteToHelper},
		{OpSDot, ExtIntegerDotProduct},
		{OpIAdd, ""},
		{OpGroupNonUniformElect, ""},
	}
	for _, tt := range tests {
		if got := ExtensionFor(tt.op); got != tt.want {
			t.Errorf("ExtensionFor(%s) = %q, want %q", tt.op, got, tt.want)
		}
	}
}
