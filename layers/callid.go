package layers

import "fmt"

// CmdBufCallID identifies one command buffer interface call.
type CmdBufCallID uint32

// Command buffer call identifiers.
const (
	CmdBufCallBegin CmdBufCallID = iota
	CmdBufCallEnd
	CmdBufCallBindPipeline
	CmdBufCallBindMsaaState
	CmdBufCallBindColorBlendState
	CmdBufCallBindDepthStencilState
	CmdBufCallBindIndexData
	CmdBufCallBindTargets
	CmdBufCallBindStreamOutTargets
	CmdBufCallBindBorderColorPalette
	CmdBufCallSetUserData
	CmdBufCallSetVertexBuffers
	CmdBufCallSetBlendConst
	CmdBufCallSetInputAssemblyState
	CmdBufCallSetTriangleRasterState
	CmdBufCallSetPointLineRasterState
	CmdBufCallSetLineStippleState
	CmdBufCallSetDepthBiasState
	CmdBufCallSetDepthBounds
	CmdBufCallSetStencilRefMasks
	CmdBufCallSetMsaaQuadSamplePattern
	CmdBufCallSetViewports
	CmdBufCallSetScissorRects
	CmdBufCallSetGlobalScissor
	CmdBufCallBarrier
	CmdBufCallRelease
	CmdBufCallAcquire
	CmdBufCallReleaseThenAcquire
	CmdBufCallWaitRegisterValue
	CmdBufCallWaitMemoryValue
	CmdBufCallWaitBusAddressableMemoryMarker
	CmdBufCallDraw
	CmdBufCallDrawOpaque
	CmdBufCallDrawIndexed
	CmdBufCallDrawIndirectMulti
	CmdBufCallDrawIndexedIndirectMulti
	CmdBufCallDispatch
	CmdBufCallDispatchIndirect
	CmdBufCallDispatchOffset
	CmdBufCallUpdateMemory
	CmdBufCallUpdateBusAddressableMemoryMarker
	CmdBufCallFillMemory
	CmdBufCallCopyMemory
	CmdBufCallCopyTypedBuffer
	CmdBufCallCopyRegisterToMemory
	CmdBufCallCopyImage
	CmdBufCallScaledCopyImage
	CmdBufCallGenerateMipmaps
	CmdBufCallColorSpaceConversionCopy
	CmdBufCallCloneImageData
	CmdBufCallCopyMemoryToImage
	CmdBufCallCopyImageToMemory
	CmdBufCallClearColorBuffer
	CmdBufCallClearBoundColorTargets
	CmdBufCallClearColorImage
	CmdBufCallClearBoundDepthStencilTargets
	CmdBufCallClearDepthStencil
	CmdBufCallClearBufferView
	CmdBufCallClearImageView
	CmdBufCallResolveImage
	CmdBufCallSetEvent
	CmdBufCallResetEvent
	CmdBufCallPredicateEvent
	CmdBufCallMemoryAtomic
	CmdBufCallResetQueryPool
	CmdBufCallBeginQuery
	CmdBufCallEndQuery
	CmdBufCallResolveQuery
	CmdBufCallSetPredication
	CmdBufCallSuspendPredication
	CmdBufCallWriteTimestamp
	CmdBufCallWriteImmediate
	CmdBufCallLoadBufferFilledSizes
	CmdBufCallSaveBufferFilledSizes
	CmdBufCallSetBufferFilledSize
	CmdBufCallLoadCeRam
	CmdBufCallWriteCeRam
	CmdBufCallDumpCeRam
	CmdBufCallExecuteNestedCmdBuffers
	CmdBufCallExecuteIndirectCmds
	CmdBufCallIf
	CmdBufCallElse
	CmdBufCallEndIf
	CmdBufCallWhile
	CmdBufCallEndWhile
	CmdBufCallFlglSync
	CmdBufCallFlglEnable
	CmdBufCallFlglDisable
	CmdBufCallBeginPerfExperiment
	CmdBufCallUpdatePerfExperimentSqttTokenMask
	CmdBufCallUpdateSqttTokenMask
	CmdBufCallEndPerfExperiment
	CmdBufCallInsertTraceMarker
	CmdBufCallInsertRgpTraceMarker
	CmdBufCallSaveComputeState
	CmdBufCallRestoreComputeState
	CmdBufCallSetUserClipPlanes
	CmdBufCallCommentString
	CmdBufCallNop
	CmdBufCallInsertExecutionMarker
	CmdBufCallXdmaWaitFlipPending
	CmdBufCallCopyMemoryToTiledImage
	CmdBufCallCopyTiledImageToMemory
	CmdBufCallCopyImageToPackedPixelImage
	CmdBufCallStartGpuProfilerLogging
	CmdBufCallStopGpuProfilerLogging
	CmdBufCallSetViewInstanceMask
	CmdBufCallUpdateHiSPretests
	CmdBufCallSetClipRects
	CmdBufCallPostProcessFrame

	// CmdBufCallCount is the number of command buffer call identifiers.
	CmdBufCallCount
)

// cmdBufCallNames is indexed by CmdBufCallID.
var cmdBufCallNames = [...]string{
	"Begin()",
	"End()",
	"CmdBindPipeline()",
	"CmdBindMsaaState()",
	"CmdBindColorBlendState()",
	"CmdBindDepthStencilState()",
	"CmdBindIndexData()",
	"CmdBindTargets()",
	"CmdBindStreamOutTargets()",
	"CmdBindBorderColorPalette()",
	"CmdSetUserData()",
	"CmdSetVertexBuffers()",
	"CmdSetBlendConst()",
	"CmdSetInputAssemblyState()",
	"CmdSetTriangleRasterState()",
	"CmdSetPointLineRasterState()",
	"CmdSetLineStippleState()",
	"CmdSetDepthBiasState()",
	"CmdSetDepthBounds()",
	"CmdSetStencilRefMasks()",
	"CmdSetMsaaQuadSamplePattern()",
	"CmdSetViewports()",
	"CmdSetScissorRects()",
	"CmdSetGlobalScissor()",
	"CmdBarrier()",
	"CmdRelease()",
	"CmdAcquire()",
	"CmdReleaseThenAcquire()",
	"CmdWaitRegisterValue()",
	"CmdWaitMemoryValue()",
	"CmdWaitBusAddressableMemoryMarker()",
	"CmdDraw()",
	"CmdDrawOpaque()",
	"CmdDrawIndexed()",
	"CmdDrawIndirectMulti()",
	"CmdDrawIndexedIndirectMulti()",
	"CmdDispatch()",
	"CmdDispatchIndirect()",
	"CmdDispatchOffset()",
	"CmdUpdateMemory()",
	"CmdUpdateBusAddressableMemoryMarker()",
	"CmdFillMemory()",
	"CmdCopyMemory()",
	"CmdCopyTypedBuffer()",
	"CmdCopyRegisterToMemory()",
	"CmdCopyImage()",
	"CmdScaledCopyImage()",
	"CmdGenerateMipmaps()",
	"CmdColorSpaceConversionCopy()",
	"CmdCloneImageData()",
	"CmdCopyMemoryToImage()",
	"CmdCopyImageToMemory()",
	"CmdClearColorBuffer()",
	"CmdClearBoundColorTargets()",
	"CmdClearColorImage()",
	"CmdClearBoundDepthStencilTargets()",
	"CmdClearDepthStencil()",
	"CmdClearBufferView()",
	"CmdClearImageView()",
	"CmdResolveImage()",
	"CmdSetEvent()",
	"CmdResetEvent()",
	"CmdPredicateEvent()",
	"CmdMemoryAtomic()",
	"CmdResetQueryPool()",
	"CmdBeginQuery()",
	"CmdEndQuery()",
	"CmdResolveQuery()",
	"CmdSetPredication()",
	"CmdSuspendPredication()",
	"CmdWriteTimestamp()",
	"CmdWriteImmediate()",
	"CmdLoadBufferFilledSizes()",
	"CmdSaveBufferFilledSizes()",
	"CmdSetBufferFilledSize()",
	"CmdLoadCeRam()",
	"CmdWriteCeRam()",
	"CmdDumpCeRam()",
	"CmdExecuteNestedCmdBuffers()",
	"CmdExecuteIndirectCmds()",
	"CmdIf()",
	"CmdElse()",
	"CmdEndIf()",
	"CmdWhile()",
	"CmdEndWhile()",
	"CmdFlglSync()",
	"CmdFlglEnable()",
	"CmdFlglDisable()",
	"CmdBeginPerfExperiment()",
	"CmdUpdatePerfExperimentSqttTokenMask()",
	"CmdUpdateSqttTokenMask()",
	"CmdEndPerfExperiment()",
	"CmdInsertTraceMarker()",
	"CmdInsertRgpTraceMarker()",
	"CmdSaveComputeState()",
	"CmdRestoreComputeState()",
	"CmdSetUserClipPlanes()",
	"CmdCommentString()",
	"CmdNop()",
	"CmdInsertExecutionMarker()",
	"CmdXdmaWaitFlipPending()",
	"CmdCopyMemoryToTiledImage()",
	"CmdCopyTiledImageToMemory()",
	"CmdCopyImageToPackedPixelImage()",
	"CmdStartGpuProfilerLogging()",
	"CmdStopGpuProfilerLogging()",
	"CmdSetViewInstanceMask()",
	"CmdUpdateHiSPretests()",
	"CmdSetClipRects()",
	"CmdPostProcessFrame()",
}

// QueueCallID identifies one queue interface call.
type QueueCallID uint32

// Queue call identifiers.
const (
	QueueCallSubmit QueueCallID = iota
	QueueCallWaitIdle
	QueueCallSignalQueueSemaphore
	QueueCallWaitQueueSemaphore
	QueueCallPresentDirect
	QueueCallPresentSwapChain
	QueueCallDelay
	QueueCallRemapVirtualMemoryPages
	QueueCallCopyVirtualMemoryPageMappings

	// QueueCallCount is the number of queue call identifiers.
	QueueCallCount
)

// queueCallNames is indexed by QueueCallID.
var queueCallNames = [...]string{
	"Submit()",
	"WaitIdle()",
	"SignalQueueSemaphore()",
	"WaitQueueSemaphore()",
	"PresentDirect()",
	"PresentSwapChain()",
	"Delay()",
	"RemapVirtualMemoryPages()",
	"CopyVirtualMemoryPageMappings()",
}

// Each name table must have exactly one entry per identifier.
var (
	_ = [1]struct{}{}[len(cmdBufCallNames)-int(CmdBufCallCount)]
	_ = [1]struct{}{}[len(queueCallNames)-int(QueueCallCount)]
)

// String returns the display name of the call, e.g. "CmdDraw()".
func (id CmdBufCallID) String() string {
	if id < CmdBufCallCount {
		return cmdBufCallNames[id]
	}
	return fmt.Sprintf("CmdBufCallID(%d)", uint32(id))
}

// String returns the display name of the call, e.g. "Submit()".
func (id QueueCallID) String() string {
	if id < QueueCallCount {
		return queueCallNames[id]
	}
	return fmt.Sprintf("QueueCallID(%d)", uint32(id))
}
