// Package pitch provides frame-based pitch tracking and pitch correction for
// monophonic Q15 audio.
//
// Included processors:
//   - Detector: multi-level fast lifting wavelet transform (FLWT) pitch
//     detector with selectable temporal smoothing policies.
//   - Shifter: time-domain pitch-synchronous overlap-add (TD-PSOLA) pitch
//     shifter with a Q15 Bartlett window.
//   - Estimator / Corrector: shared interfaces for interchangeable engines.
//
// Both engines allocate every buffer in their constructor and perform no
// allocation per frame. Instances keep cross-frame state and are not safe for
// concurrent use; use one instance per channel.
package pitch
