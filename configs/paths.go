package configs

// DescriptorDir is where the ORB extraction script drops its fingerprints
const DescriptorDir = "scripts/orb_out/"

// DescriptorExt is the only file extension the corpus loader picks up
const DescriptorExt = ".npy"

// DescriptorLength is the number of bytes of one ORB fingerprint (256 bits)
const DescriptorLength = 32

// SubjectDelimiter separates the subject label from the sample index in a
// descriptor id, e.g. "s4_7" belongs to subject "s4"
const SubjectDelimiter = "_"

// DefaultThreshold is the calibrated Hamming distance at or below which two
// descriptors are reported as the same subject
const DefaultThreshold = 57

// BitsPerByte is the number of bit planes a descriptor is split into
const BitsPerByte = 8
