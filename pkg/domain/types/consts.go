package types

// SourceURLMarker must appear in every download URL handed to the pipeline.
// Import archives are produced by the content-transfer service only; any URL
// without the marker is rejected before a single byte is fetched.
const SourceURLMarker = "content-transfer"

// PackageFilterEntry is the well-known manifest entry inside a content
// package declaring the content roots the package carries.
const PackageFilterEntry = "META-INF/vault/filter.xml"

// AssetMappingFile is the sidecar file written next to the extracted
// contents by the transfer service, consumed by the upload helper.
const AssetMappingFile = "asset-mapping.json"
